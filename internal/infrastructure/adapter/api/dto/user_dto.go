package dto

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// RegisterUserRequest represents the API request for creating an account
type RegisterUserRequest struct {
	Name             string   `json:"name" binding:"required"`
	Email            string   `json:"email"`
	Role             string   `json:"role" binding:"required"`
	GradeLevel       string   `json:"gradeLevel"`
	Section          string   `json:"section"`
	LinkedStudentIDs []string `json:"linkedStudentIds"`
}

// UpdateProfileRequest carries the profile fields to change
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	GradeLevel *string `json:"gradeLevel"`
	Section    *string `json:"section"`
}

// LinkStudentRequest links a student account to a parent by email
type LinkStudentRequest struct {
	Email string `json:"email" binding:"required"`
}

// RegisterCardRequest binds an RFID card to the account with email
type RegisterCardRequest struct {
	Email string `json:"email" binding:"required"`
	RFID  string `json:"rfid" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Role             string    `json:"role"`
	GradeLevel       string    `json:"gradeLevel,omitempty"`
	Section          string    `json:"section,omitempty"`
	RequiresParent   bool      `json:"requiresParent,omitempty"`
	LinkedStudentIDs []string  `json:"linkedStudentIds,omitempty"`
	RFID             string    `json:"rfid,omitempty"`
	WalletID         string    `json:"walletId,omitempty"`
	Balance          string    `json:"balance"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUserResponse converts a user entity
func NewUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role()),
		RFID:      u.RFID,
		WalletID:  u.WalletID,
		Balance:   u.GetBalance(),
		CreatedAt: u.CreatedAt,
	}
	if u.Profile.Student != nil {
		resp.GradeLevel = u.Profile.Student.GradeLevel
		resp.Section = u.Profile.Student.Section
		resp.RequiresParent = entity.IsRestrictedGrade(resp.GradeLevel)
	}
	if u.Profile.Parent != nil {
		resp.LinkedStudentIDs = u.Profile.Parent.LinkedStudentIDs
	}
	return resp
}

// NewUserResponses converts a list of users
func NewUserResponses(users []*entity.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, NewUserResponse(u))
	}
	return resp
}

// GradeLevelResponse is one entry of the grade catalogue
type GradeLevelResponse struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	RequiresParent bool   `json:"requiresParent"`
}

// NewGradeLevelResponses converts the grade catalogue
func NewGradeLevelResponses(levels []entity.GradeLevel) []GradeLevelResponse {
	resp := make([]GradeLevelResponse, 0, len(levels))
	for _, g := range levels {
		resp = append(resp, GradeLevelResponse{Label: g.Label, Value: g.Value, RequiresParent: g.RequiresParent})
	}
	return resp
}
