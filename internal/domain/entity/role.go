package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin        = 1
	RoleIDDoctor       = 2
	RoleIDPatient      = 3
	RoleIDReceptionist = 4
)

// RoleNames constants
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RolePatient      = "patient"
	RoleReceptionist = "receptionist"
)

// DefaultRoles are the rows every installation starts with.
var DefaultRoles = []Role{
	{ID: RoleIDAdmin, RoleName: RoleAdmin, Description: "Hospital administrator"},
	{ID: RoleIDDoctor, RoleName: RoleDoctor, Description: "Medical doctor"},
	{ID: RoleIDPatient, RoleName: RolePatient, Description: "Patient with a portal account"},
	{ID: RoleIDReceptionist, RoleName: RoleReceptionist, Description: "Front desk staff"},
}

// RoleName maps a role ID to its name, empty for unknown IDs.
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	case RoleIDReceptionist:
		return RoleReceptionist
	}
	return ""
}

// RoleIDByName is the inverse of RoleName.
func RoleIDByName(name string) (int, bool) {
	for _, r := range DefaultRoles {
		if r.RoleName == name {
			return r.ID, true
		}
	}
	return 0, false
}

// IsStaffRole reports whether the role works inside the hospital.
func IsStaffRole(roleID int) bool {
	return roleID == RoleIDAdmin || roleID == RoleIDReceptionist || roleID == RoleIDDoctor
}
