package handler

import (
	"errors"
	"net/http"

	"amburide/internal/domain"
	"amburide/internal/middleware"
	"amburide/internal/repository"
	"amburide/internal/service"
	"amburide/internal/ws"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideSvc  *service.RideService
	rideRepo *repository.RideRepository
	hub      *ws.RideHub
}

func NewRideHandler(rideSvc *service.RideService, rideRepo *repository.RideRepository, hub *ws.RideHub) *RideHandler {
	return &RideHandler{rideSvc: rideSvc, rideRepo: rideRepo, hub: hub}
}

type newRideRequest struct {
	UserID                  uint    `json:"user_id" binding:"required"`
	Charge                  float64 `json:"charge" binding:"required"`
	Status                  string  `json:"status"`
	CurrentLocationName     string  `json:"current_location_name"`
	DestinationLocationName string  `json:"destination_location_name"`
	Distance                float64 `json:"distance"`
}

// Create records a new ride for the authenticated driver. The charge is fixed
// here and never recomputed.
func (h *RideHandler) Create(c *gin.Context) {
	var req newRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	driverID := middleware.GetAccountID(c)
	ride, err := h.rideSvc.Create(c.Request.Context(), service.CreateRideInput{
		UserID:                  req.UserID,
		DriverID:                driverID,
		Charge:                  req.Charge,
		Status:                  req.Status,
		CurrentLocationName:     req.CurrentLocationName,
		DestinationLocationName: req.DestinationLocationName,
		Distance:                req.Distance,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRideStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create ride"})
		return
	}
	h.hub.BroadcastRideStatus(ride.UserID, ride.DriverID, ride.ID, ride.Status)
	c.JSON(http.StatusCreated, gin.H{"success": true, "ride": ride})
}

type updateRideStatusRequest struct {
	RideID     uint   `json:"ride_id" binding:"required"`
	RideStatus string `json:"ride_status" binding:"required"`
}

// UpdateStatus transitions a ride. A transition into Completed settles the
// ride: earnings credit, commission deduction, and threshold evaluation all
// happen in the same call.
func (h *RideHandler) UpdateStatus(c *gin.Context) {
	var req updateRideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
		return
	}
	driverID := middleware.GetAccountID(c)
	ride, result, err := h.rideSvc.UpdateStatus(c.Request.Context(), req.RideID, driverID, req.RideStatus)
	if err != nil {
		h.writeRideError(c, err)
		return
	}
	h.hub.BroadcastRideStatus(ride.UserID, ride.DriverID, ride.ID, ride.Status)
	resp := gin.H{"success": true, "ride": ride}
	if result != nil {
		resp["wallet"] = result.Wallet
		resp["is_blocked"] = result.IsBlocked
		resp["message"] = result.Message
	}
	c.JSON(http.StatusOK, resp)
}

type completeRideRequest struct {
	RideID uint `json:"ride_id" binding:"required"`
}

// Complete settles a ride by id. Kept as a dedicated endpoint for clients
// that separate "arrived" from "settle"; it is the same transaction as
// UpdateStatus with Completed.
func (h *RideHandler) Complete(c *gin.Context) {
	var req completeRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ride ID is required"})
		return
	}
	driverID := middleware.GetAccountID(c)
	ride, result, err := h.rideSvc.UpdateStatus(c.Request.Context(), req.RideID, driverID, domain.RideCompleted)
	if err != nil {
		h.writeRideError(c, err)
		return
	}
	h.hub.BroadcastRideStatus(ride.UserID, ride.DriverID, ride.ID, ride.Status)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"wallet":     result.Wallet,
		"is_blocked": result.IsBlocked,
		"message":    result.Message,
	})
}

// ListMine returns the authenticated driver's rides with both parties loaded.
func (h *RideHandler) ListMine(c *gin.Context) {
	rides, err := h.rideRepo.ListByDriver(middleware.GetAccountID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch rides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rides": rides})
}

// ListForUser returns the authenticated user's rides.
func (h *RideHandler) ListForUser(c *gin.Context) {
	rides, err := h.rideRepo.ListByUser(middleware.GetAccountID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch rides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rides": rides})
}

func (h *RideHandler) writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRideNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Ride not found"})
	case errors.Is(err, service.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
	case errors.Is(err, service.ErrNotRideDriver):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
	case errors.Is(err, service.ErrAlreadySettled):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Ride already settled"})
	case errors.Is(err, service.ErrInvalidRideStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Ride completion failed"})
	}
}
