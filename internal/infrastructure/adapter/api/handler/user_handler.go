package handler

import (
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	userUseCase usecase.UserUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterUser handles the POST /users endpoint
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), usecase.RegisterUserRequest{
		Name:             req.Name,
		Email:            req.Email,
		Role:             req.Role,
		GradeLevel:       req.GradeLevel,
		Section:          req.Section,
		LinkedStudentIDs: req.LinkedStudentIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GetUser handles the GET /users/:userId endpoint
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userUseCase.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// FindUserByEmail handles the GET /users/lookup?email= endpoint
func (h *UserHandler) FindUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, fmt.Errorf("%w: email query parameter is required", errs.ErrInvalidRequest))
		return
	}

	user, err := h.userUseCase.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile handles the PATCH /users/:userId endpoint
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), c.Param("userId"), usecase.UpdateProfileRequest{
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
		Section:    req.Section,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetLinkedStudents handles the GET /users/:userId/students endpoint
func (h *UserHandler) GetLinkedStudents(c *gin.Context) {
	students, err := h.userUseCase.GetLinkedStudents(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponses(students))
}

// LinkStudent handles the POST /users/:userId/students endpoint
func (h *UserHandler) LinkStudent(c *gin.Context) {
	var req dto.LinkStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	parent, err := h.userUseCase.LinkStudent(c.Request.Context(), c.Param("userId"), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(parent))
}

// RegisterCard handles the POST /cards endpoint
func (h *UserHandler) RegisterCard(c *gin.Context) {
	var req dto.RegisterCardRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUseCase.RegisterCard(c.Request.Context(), req.Email, req.RFID)
	if err != nil {
		h.logger.Warn("Card registration rejected", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ListGradeLevels handles the GET /grades endpoint
func (h *UserHandler) ListGradeLevels(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewGradeLevelResponses(entity.GradeLevels()))
}
