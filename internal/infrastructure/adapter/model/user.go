package model

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// User represents the database model for users.
// Email, RFID and wallet ID are nullable so the unique indexes ignore unset values.
type User struct {
	ID               string    `gorm:"primaryKey;size:64" json:"id"`
	Name             string    `gorm:"not null;size:255" json:"name"`
	Email            *string   `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Role             string    `gorm:"not null;size:20;index" json:"role"`
	GradeLevel       string    `gorm:"size:50" json:"gradeLevel,omitempty"`
	Section          string    `gorm:"size:100" json:"section,omitempty"`
	LinkedStudentIDs []string  `gorm:"serializer:json;type:text" json:"linkedStudentIds,omitempty"`
	RFIDUID          *string   `gorm:"column:rfid_uid;uniqueIndex;size:64" json:"rfidUid,omitempty"`
	WalletID         *string   `gorm:"uniqueIndex;size:20" json:"walletId,omitempty"`
	Balance          int64     `gorm:"not null;default:0" json:"balance"` // Balance in cents
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// NewUser converts a user entity into its database model
func NewUser(u *entity.User) *User {
	m := &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     nullable(u.Email),
		Role:      string(u.Role()),
		RFIDUID:   nullable(u.RFID),
		WalletID:  nullable(u.WalletID),
		Balance:   u.Balance(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	switch {
	case u.Profile.Student != nil:
		m.GradeLevel = u.Profile.Student.GradeLevel
		m.Section = u.Profile.Student.Section
	case u.Profile.Parent != nil:
		m.LinkedStudentIDs = append([]string(nil), u.Profile.Parent.LinkedStudentIDs...)
	case u.Role() == entity.RoleFaculty:
		m.GradeLevel = entity.FacultyGrade
	}
	return m
}

// ToEntity converts the model back into a user entity
func (m *User) ToEntity() *entity.User {
	profile := entity.Profile{Role: entity.Role(m.Role)}
	switch profile.Role {
	case entity.RoleStudent:
		profile.Student = &entity.StudentProfile{GradeLevel: m.GradeLevel, Section: m.Section}
	case entity.RoleParent:
		profile.Parent = &entity.ParentProfile{LinkedStudentIDs: append([]string{}, m.LinkedStudentIDs...)}
	}
	return entity.RestoreUser(m.ID, m.Name, deref(m.Email), profile, deref(m.RFIDUID), deref(m.WalletID),
		m.Balance, m.CreatedAt, m.UpdatedAt)
}

// Clone returns a deep copy of the model
func (m *User) Clone() *User {
	c := *m
	c.Email = cloneString(m.Email)
	c.RFIDUID = cloneString(m.RFIDUID)
	c.WalletID = cloneString(m.WalletID)
	c.LinkedStudentIDs = append([]string(nil), m.LinkedStudentIDs...)
	return &c
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
