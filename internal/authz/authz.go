// Package authz is the boundary authorization check: an explicit function of
// (subject, action, resource) instead of ambient per-request attributes.
// The core never calls it; the surrounding API layer does before invoking
// any operation.
package authz

import "surveyd/internal/domain"

// Action names a guarded operation.
type Action string

const (
	CreateSurvey  Action = "surveys.create"
	EditSurvey    Action = "surveys.edit"
	DeleteSurvey  Action = "surveys.delete"
	ViewSurvey    Action = "surveys.view"
	AssignSurvey  Action = "surveys.assign"
	ViewResponses Action = "responses.view"
	ExportData    Action = "data.export"
	ManageUsers   Action = "users.manage"
	ViewAnalytics Action = "analytics.view"
)

// rolePermissions is the static role -> action grant table.
var rolePermissions = map[domain.Role]map[Action]bool{
	domain.RoleAdministrator: {
		CreateSurvey: true, EditSurvey: true, DeleteSurvey: true,
		ViewSurvey: true, AssignSurvey: true, ViewResponses: true,
		ExportData: true, ManageUsers: true, ViewAnalytics: true,
	},
	domain.RoleHealthcareAdmin: {
		CreateSurvey: true, EditSurvey: true, ViewSurvey: true,
		AssignSurvey: true, ViewResponses: true, ExportData: true,
		ViewAnalytics: true,
	},
	domain.RoleMedicalStaff: {
		ViewSurvey: true, AssignSurvey: true, ViewResponses: true,
		ViewAnalytics: true,
	},
	domain.RolePatient: {
		ViewSurvey: true,
	},
	domain.RoleSystemIntegrator: {
		ViewSurvey: true, ViewResponses: true, ExportData: true,
	},
}

// Subject is whoever requests an action.
type Subject struct {
	ID         string
	Role       domain.Role
	Department string
}

// Resource is what the action applies to. Department scoping applies to
// healthcare admins: they only act within their own department.
type Resource struct {
	Department string
}

// Allow reports whether subject may perform action on resource.
func Allow(subject Subject, action Action, resource Resource) bool {
	grants, ok := rolePermissions[subject.Role]
	if !ok || !grants[action] {
		return false
	}
	if subject.Role == domain.RoleHealthcareAdmin &&
		resource.Department != "" && subject.Department != "" &&
		resource.Department != subject.Department {
		return false
	}
	return true
}
