// File: handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/services"
	"medibook/utils"
)

// respondServiceError maps the engine's typed errors to HTTP statuses.
// Anything untyped is a storage or programming failure and surfaces as 500.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Code {
		case services.CodeValidation:
			status = http.StatusBadRequest
		case services.CodeNotFound:
			status = http.StatusNotFound
		case services.CodeForbidden:
			status = http.StatusForbidden
		case services.CodeConflict, services.CodeSlotAlreadyTaken:
			status = http.StatusConflict
		case services.CodeNoScheduleDeclared, services.CodeDoctorUnavailable,
			services.CodeOutsideWorkingHours, services.CodeEmptyMedicationList:
			status = http.StatusUnprocessableEntity
		}
		utils.JSONError(c, status, svcErr.Code, svcErr.Message)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internalError", err.Error())
}
