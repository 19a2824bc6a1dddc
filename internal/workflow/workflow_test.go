package workflow_test

import (
	"testing"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name   string
		from   workflow.State
		role   workflow.Role
		action workflow.Action
		want   workflow.State
		ok     bool
	}{
		{"verifier verifies pending", workflow.StatePending, workflow.RoleVerifier, workflow.ActionVerify, workflow.StateVerified, true},
		{"hod approves verified", workflow.StateVerified, workflow.RoleHOD, workflow.ActionApprove, workflow.StateHODApproved, true},
		{"hod approves straight from pending", workflow.StatePending, workflow.RoleHOD, workflow.ActionApprove, workflow.StateHODApproved, true},
		{"hr finalizes hod_approved", workflow.StateHODApproved, workflow.RoleHR, workflow.ActionApprove, workflow.StateApproved, true},
		{"hr rejects hod_approved", workflow.StateHODApproved, workflow.RoleHR, workflow.ActionReject, workflow.StateRejected, true},
		{"employee cancels pending", workflow.StatePending, workflow.RoleEmployee, workflow.ActionCancel, workflow.StateCancelled, true},
		{"employee cannot cancel hod_approved", workflow.StateHODApproved, workflow.RoleEmployee, workflow.ActionCancel, "", false},
		{"hr cannot approve pending", workflow.StatePending, workflow.RoleHR, workflow.ActionApprove, "", false},
		{"hod cannot finalize", workflow.StateHODApproved, workflow.RoleHOD, workflow.ActionApprove, "", false},
		{"employee cancels approved", workflow.StateApproved, workflow.RoleEmployee, workflow.ActionCancel, workflow.StateCancelled, true},
		{"hr cancels approved", workflow.StateApproved, workflow.RoleHR, workflow.ActionCancel, workflow.StateCancelled, true},
		{"no re-approval from approved", workflow.StateApproved, workflow.RoleHR, workflow.ActionApprove, "", false},
		{"no action from rejected", workflow.StateRejected, workflow.RoleHOD, workflow.ActionApprove, "", false},
		{"no cancel from cancelled", workflow.StateCancelled, workflow.RoleEmployee, workflow.ActionCancel, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, ok := workflow.Transition(tc.from, tc.role, tc.action)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, next)
			}
		})
	}
}

func TestTransition_AdminActsForCurrentStep(t *testing.T) {
	next, ok := workflow.Transition(workflow.StateHODApproved, workflow.RoleAdmin, workflow.ActionApprove)
	assert.True(t, ok)
	assert.Equal(t, workflow.StateApproved, next)

	next, ok = workflow.Transition(workflow.StatePending, workflow.RoleAdmin, workflow.ActionVerify)
	assert.True(t, ok)
	assert.Equal(t, workflow.StateVerified, next)

	// cancel works from any non-terminal state for admin
	next, ok = workflow.Transition(workflow.StateHODApproved, workflow.RoleAdmin, workflow.ActionCancel)
	assert.True(t, ok)
	assert.Equal(t, workflow.StateCancelled, next)

	// admin stands in for the HR cancel slot on an approved application
	next, ok = workflow.Transition(workflow.StateApproved, workflow.RoleAdmin, workflow.ActionCancel)
	assert.True(t, ok)
	assert.Equal(t, workflow.StateCancelled, next)

	_, ok = workflow.Transition(workflow.StateRejected, workflow.RoleAdmin, workflow.ActionCancel)
	assert.False(t, ok)
}

func TestNextApproverRole(t *testing.T) {
	assert.Equal(t, workflow.RoleVerifier, workflow.NextApproverRole(workflow.StatePending))
	assert.Equal(t, workflow.RoleHOD, workflow.NextApproverRole(workflow.StateVerified))
	assert.Equal(t, workflow.RoleHR, workflow.NextApproverRole(workflow.StateHODApproved))
	assert.Equal(t, workflow.Role(""), workflow.NextApproverRole(workflow.StateApproved))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, workflow.IsTerminal(workflow.StatePending))
	assert.False(t, workflow.IsTerminal(workflow.StateHODApproved))
	assert.True(t, workflow.IsTerminal(workflow.StateApproved))
	assert.True(t, workflow.IsTerminal(workflow.StateRejected))
	assert.True(t, workflow.IsTerminal(workflow.StateCancelled))
}
