package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vyservice/ops-api/internal/middleware"
	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/service"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Repair     *RepairHandler
	Employee   *EmployeeHandler
}

// RegisterRoutes mounts the API under the configured prefix. Feature
// cards gate employee access per route group; admin tokens pass every
// card check.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, metrics *service.MetricsService) {
	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))

	api.POST("/auth/login", h.Auth.EmployeeLogin)
	api.POST("/auth/admin/login", h.Auth.AdminLogin)
	api.POST("/employees/signup", h.Employee.Signup)

	authed := api.Group("")
	authed.Use(middleware.Auth(auth))

	authed.GET("/auth/me", h.Auth.Me)

	attendance := authed.Group("/attendance")
	{
		attendance.POST("/mark", middleware.RequireCard(models.CardAttendance), h.Attendance.Mark)
		attendance.GET("/check", middleware.RequireCard(models.CardAttendance), h.Attendance.Check)
		attendance.GET("/today-count", middleware.RequireAdmin(), h.Attendance.TodayCount)
		attendance.GET("/export", middleware.RequireAdmin(), h.Attendance.ExportCSV)
		attendance.POST("/admin/set", middleware.RequireAdmin(), h.Attendance.AdminSet)
		attendance.GET("/by-employee/:employeeId", middleware.RequireSelfOrAdmin("employeeId"), h.Attendance.ByEmployee)
	}

	repairs := authed.Group("/repairs")
	{
		repairs.POST("", middleware.RequireCard(models.CardRepairService), h.Repair.Create)
		repairs.GET("", middleware.RequireCard(models.CardRepairList), h.Repair.List)
		repairs.GET("/search/:uniqueId", middleware.RequireCard(models.CardRepairList), h.Repair.Search)
		repairs.GET("/:id/receipt", middleware.RequireCard(models.CardRepairList), h.Repair.Receipt)
		repairs.PUT("/:id", middleware.RequireCard(models.CardRepairService), h.Repair.Update)
		repairs.PATCH("/:id", middleware.RequireCard(models.CardRepairService), h.Repair.Update)
		repairs.DELETE("/:id", h.Repair.Delete)
	}

	employees := authed.Group("/employees")
	{
		employees.GET("", middleware.RequireAdmin(), h.Employee.List)
		employees.GET("/:id", middleware.RequireSelfOrAdmin("id"), h.Employee.Get)
		employees.POST("/:id/approve", middleware.RequireAdmin(), h.Employee.Approve)
		employees.PATCH("/:id/credentials", middleware.RequireSelfOrAdmin("id"), h.Employee.UpdateCredentials)
		employees.PATCH("/:id/permissions", middleware.RequireAdmin(), h.Employee.SetPermissions)
		employees.DELETE("/:id", middleware.RequireAdmin(), h.Employee.Delete)
		// Fallback for clients that cannot issue DELETE.
		employees.POST("/:id/delete", middleware.RequireAdmin(), h.Employee.Delete)
	}
}
