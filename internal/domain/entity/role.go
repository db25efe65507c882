package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
)

// Role identifies which kind of account a user holds
type Role string

// Roles
const (
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
	RoleFaculty Role = "FACULTY"
)

// ParseRole accepts a role name in any letter case
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidRole, s)
	}
	return role, nil
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleStaff, RoleAdmin, RoleFaculty:
		return true
	}
	return false
}

// StudentProfile holds the fields only students carry
type StudentProfile struct {
	GradeLevel string
	Section    string
}

// ParentProfile holds the fields only parents carry
type ParentProfile struct {
	LinkedStudentIDs []string
}

// HasStudent reports whether studentID is linked to the parent
func (p *ParentProfile) HasStudent(studentID string) bool {
	for _, id := range p.LinkedStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// Profile is the role-tagged part of a user record.
// Exactly one of Student or Parent is set for those roles; both are nil for every other role.
type Profile struct {
	Role    Role
	Student *StudentProfile
	Parent  *ParentProfile
}

// NewStudentProfile builds a student profile; the grade must come from the grade catalogue
func NewStudentProfile(gradeLevel, section string) (Profile, error) {
	if _, ok := LookupGradeLevel(gradeLevel); !ok {
		return Profile{}, fmt.Errorf("%w: unknown grade level %q", errs.ErrInvalidProfile, gradeLevel)
	}
	return Profile{
		Role:    RoleStudent,
		Student: &StudentProfile{GradeLevel: gradeLevel, Section: strings.TrimSpace(section)},
	}, nil
}

// NewParentProfile builds a parent profile with its linked students
func NewParentProfile(linkedStudentIDs []string) Profile {
	ids := make([]string, 0, len(linkedStudentIDs))
	seen := make(map[string]struct{}, len(linkedStudentIDs))
	for _, id := range linkedStudentIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return Profile{Role: RoleParent, Parent: &ParentProfile{LinkedStudentIDs: ids}}
}

// NewBasicProfile builds the profile of a role without role-specific fields
func NewBasicProfile(role Role) (Profile, error) {
	switch role {
	case RoleStaff, RoleAdmin, RoleFaculty:
		return Profile{Role: role}, nil
	case RoleStudent, RoleParent:
		return Profile{}, fmt.Errorf("%w: %s requires role-specific fields", errs.ErrInvalidProfile, role)
	default:
		return Profile{}, fmt.Errorf("%w: %q", errs.ErrInvalidRole, role)
	}
}

// Validate checks that the role-specific parts match the role tag
func (p Profile) Validate() error {
	if !p.Role.IsValid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidRole, p.Role)
	}
	switch p.Role {
	case RoleStudent:
		if p.Student == nil || p.Parent != nil {
			return fmt.Errorf("%w: student profile required", errs.ErrInvalidProfile)
		}
	case RoleParent:
		if p.Parent == nil || p.Student != nil {
			return fmt.Errorf("%w: parent profile required", errs.ErrInvalidProfile)
		}
	default:
		if p.Student != nil || p.Parent != nil {
			return fmt.Errorf("%w: %s carries no role-specific fields", errs.ErrInvalidProfile, p.Role)
		}
	}
	return nil
}

// GradeLevel is an entry of the school's grade catalogue
type GradeLevel struct {
	Label          string
	Value          string
	RequiresParent bool
}

// FacultyGrade is the grade value recorded for faculty accounts
const FacultyGrade = "Faculty"

var gradeLevels = []GradeLevel{
	{Label: "Kindergarten", Value: "Kinder", RequiresParent: true},
	{Label: "Grade 1", Value: "Grade 1", RequiresParent: true},
	{Label: "Grade 2", Value: "Grade 2", RequiresParent: true},
	{Label: "Grade 3", Value: "Grade 3"},
	{Label: "Grade 4", Value: "Grade 4"},
	{Label: "Grade 5", Value: "Grade 5"},
	{Label: "Grade 6", Value: "Grade 6"},
	{Label: "Grade 7 (JHS)", Value: "Grade 7"},
	{Label: "Grade 8 (JHS)", Value: "Grade 8"},
	{Label: "Grade 9 (JHS)", Value: "Grade 9"},
	{Label: "Grade 10 (JHS)", Value: "Grade 10"},
	{Label: "Grade 11 (SHS)", Value: "Grade 11"},
	{Label: "Grade 12 (SHS)", Value: "Grade 12"},
	{Label: "College", Value: "College"},
	{Label: "Faculty/Staff", Value: "Staff"},
}

// GradeLevels returns a copy of the grade catalogue
func GradeLevels() []GradeLevel {
	out := make([]GradeLevel, len(gradeLevels))
	copy(out, gradeLevels)
	return out
}

// LookupGradeLevel finds a grade by its stored value
func LookupGradeLevel(value string) (GradeLevel, bool) {
	for _, g := range gradeLevels {
		if g.Value == value {
			return g, true
		}
	}
	return GradeLevel{}, false
}

// IsRestrictedGrade reports whether students of the grade need a parent account to order
func IsRestrictedGrade(value string) bool {
	g, ok := LookupGradeLevel(value)
	return ok && g.RequiresParent
}
