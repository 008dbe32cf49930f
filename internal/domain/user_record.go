package domain

import "strings"

// Role enumerates the kinds of people kept in the directory.
type Role string

const (
	RoleEmployee  Role = "Employee"
	RoleRecruiter Role = "Recruiter"
)

// Roles lists the accepted roles in display order.
var Roles = []Role{RoleEmployee, RoleRecruiter}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Department enumerates the organizational units a record can belong to.
type Department string

const (
	DepartmentDeveloper           Department = "Developer"
	DepartmentManager             Department = "Manager"
	DepartmentConsultant          Department = "Consultant"
	DepartmentTester              Department = "Tester"
	DepartmentBusinessDevelopment Department = "Business Development Team"
	DepartmentDesigners           Department = "Designers"
	DepartmentMarketing           Department = "Marketing Team"
)

// Departments lists the accepted departments in display order.
var Departments = []Department{
	DepartmentDeveloper,
	DepartmentManager,
	DepartmentConsultant,
	DepartmentTester,
	DepartmentBusinessDevelopment,
	DepartmentDesigners,
	DepartmentMarketing,
}

// Valid reports whether d is one of the fixed departments.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// RoleFilter selects records by role; RoleFilterAll disables the filter.
type RoleFilter string

// RoleFilterAll matches every role.
const RoleFilterAll RoleFilter = "All"

// Valid reports whether f is "All" or a known role.
func (f RoleFilter) Valid() bool {
	return f == RoleFilterAll || Role(f).Valid()
}

// Matches reports whether a record with role r passes the filter.
func (f RoleFilter) Matches(r Role) bool {
	return f == RoleFilterAll || Role(f) == r
}

// UserRecord is one directory entry. Email is the record identity.
type UserRecord struct {
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Role       Role       `json:"role"`
	Location   string     `json:"location"`
	Department Department `json:"department"`
}

// DisplayName joins first and last name with a single space.
func (u UserRecord) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// SplitDisplayName recovers first and last name from a display name by
// splitting on the first space. Anything after the first space is the last name.
func SplitDisplayName(name string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(name), " ")
	return first, last
}
