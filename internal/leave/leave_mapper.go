package leave

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"
)

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:                l.ID.String(),
		CompanyID:         l.CompanyID.String(),
		EmployeeID:        l.EmployeeID.String(),
		ApplicationNumber: l.ApplicationNumber,
		LeaveType:         l.LeaveType,
		FromDate:          leavesplit.ToISODate(l.FromDate),
		ToDate:            leavesplit.ToISODate(l.ToDate),
		IsHalfDay:         l.IsHalfDay,
		HalfDayType:       l.HalfDayType,
		NumberOfDays:      l.NumberOfDays,
		Reason:            l.Reason,
		CreatedBy:         l.CreatedBy.String(),
		RejectionReason:   l.RejectionReason,
		Workflow: WorkflowResponse{
			Status:        l.Status,
			ApprovalChain: []workflow.Step{},
		},
	}
	if next := workflow.NextApproverRole(workflow.State(l.Status)); next != "" {
		resp.Workflow.NextApproverRole = string(next)
	}
	if len(l.ApprovalChain) > 0 {
		// A chain that fails to decode is surfaced as empty rather than
		// failing the whole read.
		var steps []workflow.Step
		if err := json.Unmarshal(l.ApprovalChain, &steps); err == nil {
			resp.Workflow.ApprovalChain = steps
		}
	}
	if len(l.Splits) > 0 {
		resp.Splits = entitiesToSplits(l.Splits)
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	responses := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, mapToResponse(l))
	}
	return responses
}

func toSplitApplication(l Leave) leavesplit.Application {
	app := leavesplit.Application{
		FromDate:  leavesplit.ToISODate(l.FromDate),
		ToDate:    leavesplit.ToISODate(l.ToDate),
		LeaveType: l.LeaveType,
		IsHalfDay: l.IsHalfDay,
		Splits:    entitiesToSplits(l.Splits),
	}
	if l.HalfDayType != nil {
		app.HalfDayType = *l.HalfDayType
	}
	return app
}

func entitiesToSplits(entities []LeaveSplit) []leavesplit.Split {
	splits := make([]leavesplit.Split, 0, len(entities))
	for _, e := range entities {
		s := leavesplit.Split{
			ID:          e.ID.String(),
			Date:        leavesplit.ToISODate(e.Date),
			LeaveType:   e.LeaveType,
			LeaveNature: e.LeaveNature,
			IsHalfDay:   e.IsHalfDay,
			HalfDayType: e.HalfDayType,
			Status:      e.Status,
			Notes:       e.Notes,
		}
		if s.IsHalfDay {
			s.NumberOfDays = 0.5
		} else {
			s.NumberOfDays = 1
		}
		splits = append(splits, s)
	}
	return splits
}

func payloadToSplits(payloads []SplitPayload) []leavesplit.Split {
	splits := make([]leavesplit.Split, 0, len(payloads))
	for _, p := range payloads {
		s := leavesplit.Split{
			Date:        p.Date,
			LeaveType:   p.LeaveType,
			LeaveNature: p.LeaveNature,
			IsHalfDay:   p.IsHalfDay,
			HalfDayType: p.HalfDayType,
			Status:      p.Status,
			Notes:       p.Notes,
		}
		if s.IsHalfDay {
			s.NumberOfDays = 0.5
		} else {
			s.NumberOfDays = 1
		}
		splits = append(splits, s)
	}
	return splits
}

func payloadToEntities(leaveID uuid.UUID, payloads []SplitPayload) ([]LeaveSplit, error) {
	entities := make([]LeaveSplit, 0, len(payloads))
	for _, p := range payloads {
		at, err := leavesplit.ParseDateOnly(p.Date)
		if err != nil {
			return nil, err
		}
		nature := p.LeaveNature
		if nature == "" {
			nature = leavesplit.NaturePaid
		}
		entities = append(entities, LeaveSplit{
			ID:          uuid.New(),
			LeaveID:     leaveID,
			Date:        at,
			LeaveType:   p.LeaveType,
			LeaveNature: nature,
			IsHalfDay:   p.IsHalfDay,
			HalfDayType: p.HalfDayType,
			Status:      p.Status,
			Notes:       p.Notes,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
	}
	return entities, nil
}
