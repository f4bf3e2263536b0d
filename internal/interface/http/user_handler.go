package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/internal/application"
	"github.com/oksasatya/booking-api/internal/interface/middleware"
	"github.com/oksasatya/booking-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty"`
	Role     *string `json:"role" binding:"omitempty,role"`
}

type searchQuery struct {
	Q    string `form:"q"`
	Size int    `form:"size" binding:"omitempty,gt=0,max=100"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "Validation failed (numeric string is expected)", nil)
		return 0, false
	}
	return id, true
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "", map[string]any{"total": len(users)})
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "", nil)
}

// GetByEmail GET /api/users/by-email/:email
func (h *UserHandler) GetByEmail(c *gin.Context) {
	u, err := h.Svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "", nil)
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User created", nil)
}

// Update PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated", nil)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User deleted", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	users, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "", map[string]any{"total": len(users)})
}
