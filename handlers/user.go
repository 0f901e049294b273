// File: handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userRepo "medibook/database/repository/user"
	"medibook/utils"
)

// DoctorHandler exposes the read-only doctor directory.
type DoctorHandler struct {
	Users userRepo.UserRepository
}

// NewDoctorHandler constructs a DoctorHandler.
func NewDoctorHandler(users userRepo.UserRepository) *DoctorHandler {
	return &DoctorHandler{Users: users}
}

// ListDoctors handles GET /api/doctors.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Users.ListDoctors(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internalError", "could not load the doctor directory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors, "count": len(doctors)})
}
