package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/config"
	"github.com/ikkim/consultation-backend/internal/app/controller"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

// Controllers 라우터에 연결되는 컨트롤러 모음
type Controllers struct {
	Auth         *controller.AuthController
	Consultation *controller.ConsultationController
	BulkImport   *controller.BulkImportController
	Export       *controller.ExportController
	Feed         *controller.FeedController
	Client       *controller.ClientController
	Medium       *controller.MediumController
	Category     *controller.CategoryController
	Tag          *controller.TagController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	apperrors.RegisterValidator()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(r.authMiddleware.PageGuard())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Consultation API is running",
		})
	})

	ctrl := r.controllers
	requireAuth := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", ctrl.Auth.SignUp)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/logout", ctrl.Auth.Logout)
			auth.GET("/me", requireAuth, ctrl.Auth.Me)
		}

		consultations := v1.Group("/consultations", requireAuth)
		{
			consultations.GET("", ctrl.Consultation.ListConsultations)
			consultations.POST("", ctrl.Consultation.CreateConsultation)
			consultations.POST("/bulk", ctrl.BulkImport.BulkImport)
			consultations.POST("/bulk/upload", ctrl.BulkImport.UploadSpreadsheet)
			consultations.POST("/bulk-delete", ctrl.Consultation.BulkDeleteConsultations)
			consultations.GET("/export", ctrl.Export.Export)
			consultations.POST("/export/archive", ctrl.Export.Archive)
			consultations.GET("/template", ctrl.BulkImport.DownloadTemplate)
			consultations.GET("/feed", ctrl.Feed.Subscribe)
			consultations.GET("/:id", ctrl.Consultation.GetConsultation)
			consultations.PATCH("/:id", ctrl.Consultation.UpdateConsultation)
			consultations.DELETE("/:id", ctrl.Consultation.DeleteConsultation)
		}

		clients := v1.Group("/clients", requireAuth)
		{
			clients.GET("", ctrl.Client.ListClients)
			clients.POST("", ctrl.Client.CreateClient)
			clients.PATCH("/:id", ctrl.Client.UpdateClient)
		}

		mediums := v1.Group("/mediums", requireAuth)
		{
			mediums.GET("", ctrl.Medium.ListMediums)
			mediums.POST("", ctrl.Medium.CreateMedium)
			mediums.DELETE("/:id", ctrl.Medium.DeactivateMedium)
		}

		categories := v1.Group("/categories", requireAuth)
		{
			categories.GET("", ctrl.Category.ListCategories)
			categories.POST("", ctrl.Category.CreateCategory)
			categories.DELETE("/:id", ctrl.Category.DeactivateCategory)
		}

		tags := v1.Group("/tags", requireAuth)
		{
			tags.GET("", ctrl.Tag.ListTags)
			tags.POST("", ctrl.Tag.CreateTag)
			tags.DELETE("/:id", ctrl.Tag.DeleteTag)
		}
	}

	router.NoRoute(r.frontend())

	return router
}

// frontend serves the built web app from WEB_DIR, falling back to index.html
// for client-side routes. Unknown /api paths always get a JSON 404.
func (r *Router) frontend() gin.HandlerFunc {
	webDir := r.config.Server.WebDir

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if webDir == "" || strings.HasPrefix(path, "/api/") {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "요청한 경로를 찾을 수 없습니다")
			return
		}

		file := filepath.Join(webDir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(webDir, "index.html"))
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
