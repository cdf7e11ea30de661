package handler

import (
	"errors"
	"net/http"

	"amburide/internal/middleware"
	"amburide/internal/repository"
	"amburide/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authSvc  *service.AuthService
	userRepo *repository.UserRepository
}

func NewUserHandler(authSvc *service.AuthService, userRepo *repository.UserRepository) *UserHandler {
	return &UserHandler{authSvc: authSvc, userRepo: userRepo}
}

type userRegistrationRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// Register sends a phone OTP; the account is created on verification.
func (h *UserHandler) Register(c *gin.Context) {
	var req userRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.authSvc.RegisterUser(c.Request.Context(), req.PhoneNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to send OTP"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

type userVerifyRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	Name        string `json:"name"`
}

// VerifyOTP checks the code, finds or creates the account, and logs in.
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req userVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	u, token, err := h.authSvc.VerifyUserOTP(c.Request.Context(), req.PhoneNumber, req.OTP, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Something went wrong!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u, "access_token": token})
}

type userEmailOTPRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
}

func (h *UserHandler) RequestEmailOTP(c *gin.Context) {
	var req userEmailOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	token, err := h.authSvc.StartUserEmailVerification(c.Request.Context(), middleware.GetAccountID(c), req.Name, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to send verification email"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token})
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req registrationVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	u, err := h.authSvc.CompleteUserEmailVerification(c.Request.Context(), middleware.GetAccountID(c), req.Token, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPInvalid), errors.Is(err, service.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Your otp is not correct or expired!"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "email verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetAccountID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *UserHandler) SavePushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token missing"})
		return
	}
	if err := h.userRepo.SavePushToken(middleware.GetAccountID(c), req.PushToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
