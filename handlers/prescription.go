// File: handlers/prescription.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/middleware"
	"medibook/services/prescription"
	"medibook/utils"
)

// PrescriptionHandler exposes the prescription lifecycle over HTTP.
type PrescriptionHandler struct {
	Service prescription.PrescriptionService
}

// NewPrescriptionHandler constructs a PrescriptionHandler.
func NewPrescriptionHandler(svc prescription.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{Service: svc}
}

// IssuePrescription handles POST /api/prescriptions.
func (h *PrescriptionHandler) IssuePrescription(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	var in prescription.IssueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validationError", err.Error())
		return
	}

	p, err := h.Service.Issue(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetPrescription handles GET /api/prescriptions/:id.
func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	p, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPrescriptions handles GET /api/prescriptions.
func (h *PrescriptionHandler) ListPrescriptions(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	prescriptions, err := h.Service.List(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions, "count": len(prescriptions)})
}

// CompletePrescription handles PATCH /api/prescriptions/:id/complete.
func (h *PrescriptionHandler) CompletePrescription(c *gin.Context) {
	h.finish(c, true)
}

// CancelPrescription handles PATCH /api/prescriptions/:id/cancel.
func (h *PrescriptionHandler) CancelPrescription(c *gin.Context) {
	h.finish(c, false)
}

func (h *PrescriptionHandler) finish(c *gin.Context, complete bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	id := c.Param("id")
	var err error
	var p interface{}
	if complete {
		p, err = h.Service.Complete(c.Request.Context(), actor, id)
	} else {
		p, err = h.Service.Cancel(c.Request.Context(), actor, id)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
