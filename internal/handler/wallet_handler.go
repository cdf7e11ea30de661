package handler

import (
	"errors"
	"fmt"
	"net/http"

	"amburide/config"
	"amburide/internal/service"
	"amburide/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	cfg        *config.Config
	settlement *service.SettlementService
	provider   payment.Provider
}

func NewWalletHandler(cfg *config.Config, settlement *service.SettlementService, provider payment.Provider) *WalletHandler {
	return &WalletHandler{cfg: cfg, settlement: settlement, provider: provider}
}

type walletAmountRequest struct {
	DriverID uint    `json:"driver_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
}

// TopUp credits a driver's wallet after a confirmed payment. Always unblocks
// and clears warnings, whatever the resulting balance.
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req walletAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Driver ID and amount are required"})
		return
	}
	d, err := h.settlement.TopUp(c.Request.Context(), req.DriverID, req.Amount)
	if err != nil {
		h.writeWalletError(c, err, "Top-up failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Wallet topped up successfully",
		"wallet":     d.Wallet,
		"is_blocked": d.IsBlocked,
	})
}

// Credit adds to the wallet without touching warning or block state. Used for
// refunds and promotional credits.
func (h *WalletHandler) Credit(c *gin.Context) {
	var req walletAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Driver ID and amount are required"})
		return
	}
	d, err := h.settlement.Credit(c.Request.Context(), req.DriverID, req.Amount)
	if err != nil {
		h.writeWalletError(c, err, "Failed to update wallet")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wallet credit successful",
		"wallet":  d.Wallet,
	})
}

type createOrderRequest struct {
	Amount int64 `json:"amount" binding:"required"` // whole currency units
}

// CreateOrder creates a Razorpay order for a wallet top-up. Amount converts
// to minor units (paise) for the gateway.
func (h *WalletHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount is required"})
		return
	}
	receipt := fmt.Sprintf("wallet_topup_%s", uuid.NewString())
	order, err := h.provider.CreateOrder(c.Request.Context(), req.Amount*100, h.cfg.Razorpay.Currency, receipt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key":      h.cfg.Razorpay.KeyID,
	})
}

func (h *WalletHandler) writeWalletError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
