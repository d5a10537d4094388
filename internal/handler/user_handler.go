package handler

import (
	"net/http"

	"identity_service/internal/middleware"
	"identity_service/internal/model"
	"identity_service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles the /users endpoints
type UserHandler struct {
	service service.UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: s, logger: logger}
}

// Register creates an account and returns a token
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

// Login exchanges email and password for a token
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

// RequestOTP issues a simulated Aadhaar OTP
func (h *UserHandler) RequestOTP(c *gin.Context) {
	var req model.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	res, err := h.service.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := gin.H{"message": res.Message}
	if res.OTP != "" {
		body["otp"] = res.OTP
	}
	c.JSON(http.StatusOK, body)
}

// VerifyOTP checks the OTP and marks the user verified
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	if err := h.service.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Aadhaar verified successfully."})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing or malformed."})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile fetched successfully.",
		"user":    user,
	})
}

// UpdateProfile applies allow-listed profile changes
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing or malformed."})
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequestBody(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), identity.ID, updates)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

// GetVerifications returns the user's Aadhaar and PAN records
func (h *UserHandler) GetVerifications(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing or malformed."})
		return
	}

	v, err := h.service.GetVerifications(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// RegisterUserRoutes registers the user routes; authMW guards the profile endpoints
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/request-otp", h.RequestOTP)
		users.POST("/verify-otp", h.VerifyOTP)

		users.GET("/me", authMW, h.GetProfile)
		users.PUT("/update", authMW, h.UpdateProfile)
		users.GET("/verifications", authMW, h.GetVerifications)
	}
}
