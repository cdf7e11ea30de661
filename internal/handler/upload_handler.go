package handler

import (
	"fmt"
	"net/http"

	"amburide/internal/middleware"
	"amburide/internal/repository"
	"amburide/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	cloud      cloudinary.Client
	driverRepo *repository.DriverRepository
}

func NewUploadHandler(cloud cloudinary.Client, driverRepo *repository.DriverRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, driverRepo: driverRepo}
}

// UploadLicense stores the driver's licence scan and saves the URL on the
// driver row. Multipart field name: "document".
func (h *UploadHandler) UploadLicense(c *gin.Context) {
	driverID := middleware.GetAccountID(c)
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "document file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not read document"})
		return
	}
	defer file.Close()
	publicID := fmt.Sprintf("driver_%d_license", driverID)
	url, err := h.cloud.UploadImage(c.Request.Context(), file, "driver-documents", publicID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "upload failed"})
		return
	}
	if err := h.driverRepo.SaveLicenseDoc(driverID, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
