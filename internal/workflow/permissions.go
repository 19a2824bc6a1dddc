package workflow

// Actor is who is attempting an action.
type Actor struct {
	EmployeeID string
	Role       Role
}

// Subject is the application the action targets.
type Subject struct {
	State              State
	ApplicantID        string
	ReportingManagerID string
}

// permissionRule is one row of the precedence table. Rules are evaluated in
// order and the first match wins, which makes the precedence between role
// overrides, workflow gating, reporting-manager membership, and applicant
// self-service explicit instead of implied by control flow.
type permissionRule struct {
	Name    string
	Applies func(actor Actor, sub Subject, action Action) bool
}

var permissionRules = []permissionRule{
	{
		// 1. Admins may perform any action the table defines for the state.
		Name: "admin_override",
		Applies: func(actor Actor, sub Subject, action Action) bool {
			if actor.Role != RoleAdmin {
				return false
			}
			_, ok := Transition(sub.State, RoleAdmin, action)
			return ok
		},
	},
	{
		// 2. Workflow gating: the actor's role must match the role the
		// transition table expects for this state and action.
		Name: "workflow_gate",
		Applies: func(actor Actor, sub Subject, action Action) bool {
			if actor.Role == RoleEmployee || actor.Role == RoleAdmin {
				return false
			}
			_, ok := Transition(sub.State, actor.Role, action)
			return ok
		},
	},
	{
		// 3. The applicant's reporting manager may act in the HOD slot even
		// without the hod role assigned.
		Name: "reporting_manager",
		Applies: func(actor Actor, sub Subject, action Action) bool {
			if actor.EmployeeID == "" || actor.EmployeeID != sub.ReportingManagerID {
				return false
			}
			_, ok := Transition(sub.State, RoleHOD, action)
			return ok
		},
	},
	{
		// 4. Applicants may cancel their own application while it is still
		// in flight. No other self-service action exists.
		Name: "applicant_cancel",
		Applies: func(actor Actor, sub Subject, action Action) bool {
			if action != ActionCancel || actor.EmployeeID != sub.ApplicantID {
				return false
			}
			_, ok := Transition(sub.State, RoleEmployee, ActionCancel)
			return ok
		},
	},
}

// CanPerformAction reports whether the actor may apply action to the
// subject, and which rule granted it.
func CanPerformAction(actor Actor, sub Subject, action Action) (bool, string) {
	for _, rule := range permissionRules {
		if rule.Applies(actor, sub, action) {
			return true, rule.Name
		}
	}
	return false, ""
}
