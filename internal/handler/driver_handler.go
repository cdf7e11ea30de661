package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"amburide/internal/domain"
	"amburide/internal/middleware"
	"amburide/internal/repository"
	"amburide/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DriverHandler struct {
	authSvc    *service.AuthService
	driverRepo *repository.DriverRepository
}

func NewDriverHandler(authSvc *service.AuthService, driverRepo *repository.DriverRepository) *DriverHandler {
	return &DriverHandler{authSvc: authSvc, driverRepo: driverRepo}
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type phoneOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

// SendOTP asks Twilio to text a verification code to the driver's phone.
func (h *DriverHandler) SendOTP(c *gin.Context) {
	var req phoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.authSvc.SendPhoneOTP(c.Request.Context(), req.PhoneNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to send OTP"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Login verifies the phone OTP and returns an access token for an existing driver.
func (h *DriverHandler) Login(c *gin.Context) {
	var req phoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	d, token, err := h.authSvc.LoginDriver(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDriverNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		case errors.Is(err, service.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Something went wrong!"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "driver": d, "access_token": token})
}

// VerifyOTP checks the phone code during registration, before the email step.
func (h *DriverHandler) VerifyOTP(c *gin.Context) {
	var req phoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.authSvc.VerifyPhoneOTP(c.Request.Context(), req.PhoneNumber, req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Something went wrong!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type driverRegistrationRequest struct {
	Name               string  `json:"name" binding:"required"`
	Country            string  `json:"country"`
	PhoneNumber        string  `json:"phone_number" binding:"required"`
	Email              string  `json:"email" binding:"required,email"`
	VehicleType        string  `json:"vehicle_type"`
	RegistrationNumber string  `json:"registration_number"`
	RegistrationDate   string  `json:"registration_date"`
	DrivingLicense     string  `json:"driving_license"`
	VehicleColor       string  `json:"vehicle_color"`
	Rate               float64 `json:"rate"`
}

// SendEmailOTP emails a 4-digit code and returns the activation token that
// carries the pending registration.
func (h *DriverHandler) SendEmailOTP(c *gin.Context) {
	var req driverRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	token, err := h.authSvc.StartDriverRegistration(c.Request.Context(), service.DriverRegistration{
		Name:               req.Name,
		Country:            req.Country,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		VehicleType:        req.VehicleType,
		RegistrationNumber: req.RegistrationNumber,
		RegistrationDate:   req.RegistrationDate,
		DrivingLicense:     req.DrivingLicense,
		VehicleColor:       req.VehicleColor,
		Rate:               req.Rate,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to send verification email"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token})
}

type registrationVerifyRequest struct {
	Token string `json:"token" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// Register verifies the email OTP against the activation token and creates
// the driver account.
func (h *DriverHandler) Register(c *gin.Context) {
	var req registrationVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	d, token, err := h.authSvc.CompleteDriverRegistration(c.Request.Context(), req.Token, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPInvalid), errors.Is(err, service.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Your otp is not correct or expired!"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "registration failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "driver": d, "access_token": token})
}

// Me returns the logged-in driver.
func (h *DriverHandler) Me(c *gin.Context) {
	d, err := h.driverRepo.GetByID(middleware.GetAccountID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "driver": d})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	id := middleware.GetAccountID(c)
	if err := h.driverRepo.UpdateStatus(id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update status"})
		return
	}
	d, err := h.driverRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "driver": d})
}

// Logout sets the driver Inactive. Tokens stay valid until expiry.
func (h *DriverHandler) Logout(c *gin.Context) {
	id := middleware.GetAccountID(c)
	if err := h.driverRepo.UpdateStatus(id, domain.DriverInactive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Driver logged out and status set to Inactive"})
}

type pushTokenRequest struct {
	PushToken string `json:"push_token" binding:"required"`
}

func (h *DriverHandler) SavePushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token missing"})
		return
	}
	if err := h.driverRepo.SavePushToken(middleware.GetAccountID(c), req.PushToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetByIDs returns driver rows for a comma-separated id list. Used by the
// dispatch frontend to hydrate candidate drivers.
func (h *DriverHandler) GetByIDs(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No driver IDs provided"})
		return
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid driver id: " + part})
			return
		}
		ids = append(ids, uint(id))
	}
	drivers, err := h.driverRepo.GetByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drivers": drivers})
}

// GetForDispatch returns the wallet/status subset dispatch needs for one
// driver. Blocked drivers are reported as not found so they never receive
// ride offers.
func (h *DriverHandler) GetForDispatch(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid driver id"})
		return
	}
	d, err := h.driverRepo.GetByID(uint(id))
	if err != nil || d.IsBlocked {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"driver": gin.H{
			"id":           d.ID,
			"wallet":       d.Wallet,
			"status":       d.Status,
			"vehicle_type": d.VehicleType,
			"rate":         d.Rate,
			"push_token":   d.PushToken,
			"is_blocked":   d.IsBlocked,
		},
	})
}
