package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Courses     *CourseHandler
	Assignments *AssignmentHandler
	Search      *SearchHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the API under prefix and the probes at the root.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)
	courses.GET("/:id/assignments", h.Courses.ListAssignments)
	courses.POST("/:id/assignments", h.Courses.CreateAssignment)
	courses.PUT("/:id/assignments/:assignmentId", h.Courses.UpdateAssignment)
	courses.DELETE("/:id/assignments/:assignmentId", h.Courses.DeleteAssignment)

	assignments := api.Group("/assignments")
	assignments.GET("", h.Assignments.List)
	assignments.GET("/upcoming", h.Assignments.Upcoming)
	assignments.GET("/overdue", h.Assignments.Overdue)
	assignments.GET("/export", h.Assignments.Export)

	api.GET("/search", h.Search.Search)
}
