package workflow_test

import (
	"testing"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestCanPerformAction(t *testing.T) {
	applicant := "emp-001"
	manager := "emp-100"

	sub := func(state workflow.State) workflow.Subject {
		return workflow.Subject{
			State:              state,
			ApplicantID:        applicant,
			ReportingManagerID: manager,
		}
	}

	cases := []struct {
		name     string
		actor    workflow.Actor
		state    workflow.State
		action   workflow.Action
		allowed  bool
		wantRule string
	}{
		{
			name:     "admin overrides any defined step",
			actor:    workflow.Actor{EmployeeID: "emp-999", Role: workflow.RoleAdmin},
			state:    workflow.StateHODApproved,
			action:   workflow.ActionApprove,
			allowed:  true,
			wantRule: "admin_override",
		},
		{
			name:     "hr gated by workflow state",
			actor:    workflow.Actor{EmployeeID: "emp-200", Role: workflow.RoleHR},
			state:    workflow.StateHODApproved,
			action:   workflow.ActionApprove,
			allowed:  true,
			wantRule: "workflow_gate",
		},
		{
			name:    "hr cannot act before hod",
			actor:   workflow.Actor{EmployeeID: "emp-200", Role: workflow.RoleHR},
			state:   workflow.StateVerified,
			action:  workflow.ActionApprove,
			allowed: false,
		},
		{
			name:     "reporting manager fills the hod slot",
			actor:    workflow.Actor{EmployeeID: manager, Role: workflow.RoleEmployee},
			state:    workflow.StateVerified,
			action:   workflow.ActionApprove,
			allowed:  true,
			wantRule: "reporting_manager",
		},
		{
			name:    "unrelated employee cannot approve",
			actor:   workflow.Actor{EmployeeID: "emp-500", Role: workflow.RoleEmployee},
			state:   workflow.StateVerified,
			action:  workflow.ActionApprove,
			allowed: false,
		},
		{
			name:     "applicant cancels own pending application",
			actor:    workflow.Actor{EmployeeID: applicant, Role: workflow.RoleEmployee},
			state:    workflow.StatePending,
			action:   workflow.ActionCancel,
			allowed:  true,
			wantRule: "applicant_cancel",
		},
		{
			name:    "applicant cannot cancel after hod approval",
			actor:   workflow.Actor{EmployeeID: applicant, Role: workflow.RoleEmployee},
			state:   workflow.StateHODApproved,
			action:  workflow.ActionCancel,
			allowed: false,
		},
		{
			name:    "applicant cannot approve self",
			actor:   workflow.Actor{EmployeeID: applicant, Role: workflow.RoleEmployee},
			state:   workflow.StatePending,
			action:  workflow.ActionApprove,
			allowed: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, rule := workflow.CanPerformAction(tc.actor, sub(tc.state), tc.action)
			assert.Equal(t, tc.allowed, allowed)
			if tc.allowed {
				assert.Equal(t, tc.wantRule, rule)
			}
		})
	}
}

func TestCanPerformAction_AdminBeatsWorkflowGate(t *testing.T) {
	// An actor who is both admin and hr resolves through the admin rule,
	// making the precedence observable.
	actor := workflow.Actor{EmployeeID: "emp-1", Role: workflow.RoleAdmin}
	sub := workflow.Subject{State: workflow.StateVerified, ApplicantID: "emp-2"}

	allowed, rule := workflow.CanPerformAction(actor, sub, workflow.ActionApprove)
	assert.True(t, allowed)
	assert.Equal(t, "admin_override", rule)
}
