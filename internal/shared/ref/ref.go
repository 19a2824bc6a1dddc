package ref

import (
	"bytes"
	"encoding/json"
)

// Entity is anything a Ref can point at. RefID returns the entity's
// canonical string id.
type Entity interface {
	RefID() string
}

// Ref is a reference field that arrives over the wire either as a bare id
// string or as a populated object (the backend decides per endpoint whether
// to expand relations). Access sites use ID/Entity instead of re-checking
// the runtime shape.
type Ref[T Entity] struct {
	id     string
	entity *T
}

func FromID[T Entity](id string) Ref[T] {
	return Ref[T]{id: id}
}

func FromEntity[T Entity](e T) Ref[T] {
	return Ref[T]{id: e.RefID(), entity: &e}
}

// ID returns the referenced id regardless of which shape was supplied.
func (r Ref[T]) ID() string {
	if r.entity != nil {
		return (*r.entity).RefID()
	}
	return r.id
}

// Entity returns the populated object when the wire carried one.
func (r Ref[T]) Entity() (T, bool) {
	if r.entity != nil {
		return *r.entity, true
	}
	var zero T
	return zero, false
}

func (r Ref[T]) IsZero() bool {
	return r.id == "" && r.entity == nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.entity != nil {
		return json.Marshal(*r.entity)
	}
	return json.Marshal(r.id)
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	}

	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*r = Ref[T]{id: e.RefID(), entity: &e}
	return nil
}
