package handler

import (
	"errors"
	"net/http"

	"amburide/internal/repository"
	"amburide/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the fleet reporting endpoints.
type AdminHandler struct {
	authSvc    *service.AuthService
	driverRepo *repository.DriverRepository
	rideRepo   *repository.RideRepository
	userRepo   *repository.UserRepository
}

func NewAdminHandler(authSvc *service.AuthService, driverRepo *repository.DriverRepository, rideRepo *repository.RideRepository, userRepo *repository.UserRepository) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, driverRepo: driverRepo, rideRepo: rideRepo, userRepo: userRepo}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	token, err := h.authSvc.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": token})
}

func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.driverRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drivers": drivers})
}

func (h *AdminHandler) ListRides(c *gin.Context) {
	rides, err := h.rideRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch rides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total_rides": len(rides), "rides": rides})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
