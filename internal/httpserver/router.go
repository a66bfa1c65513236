package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"backoffice/internal/handler"
	"backoffice/pkg/mq"
	"backoffice/pkg/rbac"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Project  *handler.ProjectHandler
	Issue    *handler.IssueHandler
	Sheet    *handler.SheetHandler
	Document *handler.DocumentHandler
}

func NewRouter(h Handlers, jwtSecret string, logger *zap.Logger, db *pgxpool.Pool, publisher *mq.Publisher) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(logger))

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/login", h.Auth.Login)

	// Authenticated
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		projects := auth.Group("/projects")
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", RequirePermission(rbac.PermissionWriteProject), h.Project.CreateProject)
			projects.GET("/:id", h.Project.GetProject)
			projects.PUT("/:id", RequirePermission(rbac.PermissionWriteProject), h.Project.UpdateProject)
			projects.DELETE("/:id", RequirePermission(rbac.PermissionDeleteProject), h.Project.DeleteProject)
			projects.GET("/:id/stats", h.Project.GetProjectStats)

			projects.GET("/:id/issues", h.Issue.ListIssues)
			projects.POST("/:id/issues", RequirePermission(rbac.PermissionWriteIssue), h.Issue.CreateIssue)

			projects.GET("/:id/sheets", h.Sheet.ListServiceSheets)
			projects.POST("/:id/sheets", RequirePermission(rbac.PermissionWriteSheet), h.Sheet.CreateServiceSheet)
			projects.GET("/:id/change-requests", h.Sheet.ListChangeRequests)
			projects.POST("/:id/change-requests", RequirePermission(rbac.PermissionWriteSheet), h.Sheet.CreateChangeRequest)
			projects.GET("/:id/meetings", h.Sheet.ListMeetingNotes)
			projects.POST("/:id/meetings", RequirePermission(rbac.PermissionWriteSheet), h.Sheet.CreateMeetingNote)

			projects.GET("/:id/documents", h.Document.ListDocuments)
			projects.POST("/:id/documents", RequirePermission(rbac.PermissionWriteSheet), h.Document.RegisterDocument)
		}

		issues := auth.Group("/issues")
		{
			issues.GET("/:id", h.Issue.GetIssue)
			issues.PUT("/:id", RequirePermission(rbac.PermissionWriteIssue), h.Issue.UpdateIssue)
			issues.POST("/:id/duplicate", RequirePermission(rbac.PermissionWriteIssue), h.Issue.DuplicateIssue)
			issues.DELETE("/:id", RequirePermission(rbac.PermissionDeleteIssue), h.Issue.DeleteIssue)

			issues.GET("/:id/subtasks", h.Issue.ListSubtasks)
			issues.POST("/:id/subtasks", RequirePermission(rbac.PermissionWriteIssue), h.Issue.CreateSubtask)
		}

		auth.PUT("/subtasks/:id", RequirePermission(rbac.PermissionWriteIssue), h.Issue.UpdateSubtask)
		auth.DELETE("/subtasks/:id", RequirePermission(rbac.PermissionWriteIssue), h.Issue.DeleteSubtask)

		auth.POST("/change-requests/:id/status", RequirePermission(rbac.PermissionWriteSheet), h.Sheet.UpdateChangeRequestStatus)
		auth.DELETE("/documents/:id", RequirePermission(rbac.PermissionWriteSheet), h.Document.DeleteDocument)

		// Admin-only user management
		admin := auth.Group("/admin")
		admin.Use(RequirePermission(rbac.PermissionManageUsers))
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.POST("/users", h.Admin.CreateUser)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
			admin.POST("/users/:id/reset-password", h.Admin.ResetPassword)
			admin.GET("/audit-logs", h.Admin.ListAuditLogs)
		}
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
