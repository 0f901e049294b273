package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medibook/handlers"
	"medibook/middleware"
	"medibook/models"
	"medibook/utils"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Appointments  *handlers.AppointmentHandler
	Schedules     *handlers.ScheduleHandler
	Prescriptions *handlers.PrescriptionHandler
	Doctors       *handlers.DoctorHandler
}

// RegisterRoutes attaches all endpoint groups to the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterPrescriptionRoutes(r, hb)
}

// RegisterAppointmentRoutes registers the appointment lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", middleware.RequireRole(models.RoleUser), hb.Appointments.RequestAppointment)
		api.GET("", hb.Appointments.ListAppointments)
		api.PATCH("/:id/approve", middleware.RequireRole(models.RoleDoctor), hb.Appointments.ApproveAppointment)
		api.PATCH("/:id/reject", middleware.RequireRole(models.RoleDoctor), hb.Appointments.RejectAppointment)
		api.PATCH("/:id/cancel", hb.Appointments.CancelAppointment)
	}
}

// RegisterScheduleRoutes registers schedule declaration and availability endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/schedules")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), hb.Schedules.DeclareSchedule)
		api.PATCH("/:id/leave", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), hb.Schedules.DeclareLeave)
		api.GET("", hb.Schedules.ListWindows)
	}

	doctors := r.Group("/api/doctors")
	doctors.Use(middleware.JWTAuthMiddleware())
	{
		doctors.GET("", hb.Doctors.ListDoctors)
		doctors.GET("/:id/availability", hb.Schedules.CheckAvailability)
	}
}

// RegisterPrescriptionRoutes registers the prescription lifecycle endpoints.
func RegisterPrescriptionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/prescriptions")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", middleware.RequireRole(models.RoleDoctor), hb.Prescriptions.IssuePrescription)
		api.GET("", hb.Prescriptions.ListPrescriptions)
		api.GET("/:id", hb.Prescriptions.GetPrescription)
		api.PATCH("/:id/complete", middleware.RequireRole(models.RoleDoctor), hb.Prescriptions.CompletePrescription)
		api.PATCH("/:id/cancel", middleware.RequireRole(models.RoleDoctor), hb.Prescriptions.CancelPrescription)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		if !status.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "services": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": status})
	})
}
