package domain

import "time"

// Role is the coarse access role of a recipient.
type Role string

const (
	RoleAdministrator    Role = "administrator"
	RoleHealthcareAdmin  Role = "healthcare_admin"
	RoleMedicalStaff     Role = "medical_staff"
	RolePatient          Role = "patient"
	RoleSystemIntegrator Role = "system_integrator"
)

// Recipient is an addressable user that surveys can be delivered to.
type Recipient struct {
	ID         string `json:"id" db:"id"`
	Username   string `json:"username" db:"username"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone" db:"phone"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	Department string `json:"department,omitempty" db:"department"`
	Role       Role   `json:"role" db:"role"`
	Active     bool   `json:"active" db:"active"`

	// LastSeenAt is the activity timestamp used as the post-visit proxy
	// signal when resolving recent-visit audiences.
	LastSeenAt *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
}

// FullName renders "First Last" for message templates.
func (r Recipient) FullName() string {
	switch {
	case r.FirstName == "" && r.LastName == "":
		return r.Username
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
