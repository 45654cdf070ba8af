package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/response"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type addUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

// Absent fields bind as empty strings and are denied like any other mismatch.
type verificationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddUser POST /user/add
func (h *UserHandler) AddUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUsernameTaken) {
			response.Error(c, http.StatusConflict, "username already exists", nil)
			return
		}
		h.internalError(c, "add user failed", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Verification POST /user/verification
func (h *UserHandler) Verification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrNotVerified) {
			response.Error(c, http.StatusUnauthorized, "user not verified", nil)
			return
		}
		h.internalError(c, "verification failed", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers GET /user/get
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser GET /user/get/:value?by=username|name|address
// Responds with JSON null when nothing matches.
func (h *UserHandler) GetUser(c *gin.Context) {
	field, err := userapp.ParseLookupField(c.Query("by"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), map[string]string{"by": c.Query("by")})
		return
	}

	u, err := h.Svc.FindUser(c.Request.Context(), field, c.Param("value"))
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		h.internalError(c, "get user failed", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Search GET /user/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	results, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.internalError(c, "search users failed", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Health GET /health
func (h *UserHandler) Health(c *gin.Context) {
	if err := h.Svc.Healthy(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Warn("health check failed")
		response.Error(c, http.StatusServiceUnavailable, "store unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}

func (h *UserHandler) internalError(c *gin.Context, msg string, err error) {
	h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	response.Error(c, http.StatusInternalServerError, "internal server error", nil)
}
