// Package workflow is the approval state machine shared by leave and
// on-duty applications. Transition legality is a lookup in an explicit
// table keyed by (current state, actor role, action) rather than scattered
// status-string comparisons.
package workflow

import "time"

type State string

const (
	StatePending     State = "pending"
	StateVerified    State = "verified"
	StateHODApproved State = "hod_approved"
	StateApproved    State = "approved"
	StateRejected    State = "rejected"
	StateCancelled   State = "cancelled"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleVerifier Role = "verifier"
	RoleHOD      Role = "hod"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

type Action string

const (
	ActionVerify  Action = "verify"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

type transitionKey struct {
	From   State
	Role   Role
	Action Action
}

// transitions is the single source of truth for workflow legality. The
// verifier step is optional: an HOD may approve straight from pending when
// the company runs a two-step chain.
var transitions = map[transitionKey]State{
	{StatePending, RoleVerifier, ActionVerify}: StateVerified,

	{StatePending, RoleHOD, ActionApprove}:  StateHODApproved,
	{StateVerified, RoleHOD, ActionApprove}: StateHODApproved,

	{StateHODApproved, RoleHR, ActionApprove}: StateApproved,

	{StatePending, RoleVerifier, ActionReject}: StateRejected,
	{StatePending, RoleHOD, ActionReject}:      StateRejected,
	{StateVerified, RoleHOD, ActionReject}:     StateRejected,
	{StateHODApproved, RoleHR, ActionReject}:   StateRejected,

	{StatePending, RoleEmployee, ActionCancel}:  StateCancelled,
	{StateVerified, RoleEmployee, ActionCancel}: StateCancelled,

	// An approved application can still be called off before it is taken.
	// Cancelling here releases the balance the approval consumed.
	{StateApproved, RoleEmployee, ActionCancel}: StateCancelled,
	{StateApproved, RoleHR, ActionCancel}:       StateCancelled,
}

// nextApprover maps a non-terminal state to the role whose action moves the
// application forward.
var nextApprover = map[State]Role{
	StatePending:     RoleVerifier,
	StateVerified:    RoleHOD,
	StateHODApproved: RoleHR,
}

func IsTerminal(s State) bool {
	switch s {
	case StateApproved, StateRejected, StateCancelled:
		return true
	}
	return false
}

// NextApproverRole returns the role gating the next step, or "" for
// terminal states.
func NextApproverRole(s State) Role {
	return nextApprover[s]
}

// Transition resolves (from, role, action) against the table. Admin actors
// act in whatever role the current step expects; cancel additionally works
// for an admin from any non-terminal state.
func Transition(from State, role Role, action Action) (State, bool) {
	if role == RoleAdmin {
		if action == ActionCancel && !IsTerminal(from) {
			return StateCancelled, true
		}
		if effective, ok := adminEffectiveRole(from, action); ok {
			role = effective
		}
	}

	next, ok := transitions[transitionKey{From: from, Role: role, Action: action}]
	return next, ok
}

// adminEffectiveRole finds the role the table expects for (from, action),
// so an admin can stand in for any approver step.
func adminEffectiveRole(from State, action Action) (Role, bool) {
	for key := range transitions {
		if key.From == from && key.Action == action {
			return key.Role, true
		}
	}
	return "", false
}

// Step is one completed link of an application's approval chain.
type Step struct {
	Role   Role      `json:"role"`
	Action Action    `json:"action"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
	Notes  string    `json:"notes,omitempty"`
}
