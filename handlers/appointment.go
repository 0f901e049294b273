// File: handlers/appointment.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/appointment"
	"medibook/utils"
)

// AppointmentHandler exposes the appointment lifecycle over HTTP.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// RequestAppointment handles POST /api/appointments.
func (h *AppointmentHandler) RequestAppointment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	var in appointment.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validationError", err.Error())
		return
	}

	appt, err := h.Service.Request(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ApproveAppointment handles PATCH /api/appointments/:id/approve.
func (h *AppointmentHandler) ApproveAppointment(c *gin.Context) {
	h.transition(c, h.Service.Approve)
}

// RejectAppointment handles PATCH /api/appointments/:id/reject.
func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	h.transition(c, h.Service.Reject)
}

// CancelAppointment handles PATCH /api/appointments/:id/cancel.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	h.transition(c, h.Service.Cancel)
}

// ListAppointments handles GET /api/appointments with optional status, date
// and doctorId query filters.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	in := appointment.ListInput{
		Status:   models.AppointmentStatus(c.Query("status")),
		Date:     c.Query("date"),
		DoctorID: c.Query("doctorId"),
	}

	appts, err := h.Service.List(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
}

func (h *AppointmentHandler) transition(c *gin.Context, fn func(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	id := c.Param("id")
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "validationError", "appointment id is required")
		return
	}

	appt, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
