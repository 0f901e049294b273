// File: handlers/schedule.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/availability"
	"medibook/services/schedule"
	"medibook/utils"
)

// ScheduleHandler exposes schedule declaration and availability checks.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Checker *availability.Checker
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService, checker *availability.Checker) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Checker: checker}
}

// DeclareSchedule handles POST /api/schedules.
func (h *ScheduleHandler) DeclareSchedule(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	var in schedule.DeclareScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validationError", err.Error())
		return
	}

	sched, err := h.Service.DeclareSchedule(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// DeclareLeave handles PATCH /api/schedules/:id/leave.
func (h *ScheduleHandler) DeclareLeave(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	var in schedule.DeclareLeaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validationError", err.Error())
		return
	}

	sched, err := h.Service.DeclareLeave(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

// ListWindows handles GET /api/schedules?doctorId=&from=&to=.
func (h *ScheduleHandler) ListWindows(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	doctorID := c.Query("doctorId")
	if doctorID == "" && actor.Role == models.RoleDoctor {
		doctorID = actor.ID
	}

	windows, err := h.Service.ListWindows(c.Request.Context(), doctorID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": windows, "count": len(windows)})
}

// CheckAvailability handles GET /api/doctors/:id/availability?date=&time=.
// The answer is advisory; approval re-checks under the store's guards.
func (h *ScheduleHandler) CheckAvailability(c *gin.Context) {
	doctorID := c.Param("id")
	date := c.Query("date")
	t := c.Query("time")
	if doctorID == "" || date == "" || t == "" {
		utils.JSONError(c, http.StatusBadRequest, "validationError", "doctor id, date and time are required")
		return
	}

	decision, err := h.Checker.IsAvailable(c.Request.Context(), doctorID, date, t)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}
