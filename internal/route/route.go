package route

import (
	"context"
	"fmt"
	"time"

	"github.com/moscovig/hthCourseReg/config"
	_ "github.com/moscovig/hthCourseReg/docs"
	"github.com/moscovig/hthCourseReg/internal/auth"
	"github.com/moscovig/hthCourseReg/internal/category"
	"github.com/moscovig/hthCourseReg/internal/course"
	"github.com/moscovig/hthCourseReg/internal/dto"
	"github.com/moscovig/hthCourseReg/internal/middleware"
	"github.com/moscovig/hthCourseReg/internal/registration"
	"github.com/moscovig/hthCourseReg/internal/syslog"
	"github.com/moscovig/hthCourseReg/internal/templates"
	"github.com/moscovig/hthCourseReg/internal/timetable"
	"github.com/moscovig/hthCourseReg/internal/user"
	"github.com/moscovig/hthCourseReg/packages/database"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies what the router needs from main. Registration and Users are
// shared with the startup bootstrap and the expiry sweeper.
type Dependencies struct {
	Config       *config.AppConfig
	DB           *gorm.DB
	Sessions     auth.SessionStore
	Registration *registration.Service
	Users        *user.Service
	Logger       *zap.Logger
}

func initRoute(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", healthz(deps.DB))

	authService := auth.NewService(deps.Users, deps.Sessions, cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpireTime)*time.Hour, deps.Logger)
	courseService := course.NewService(course.NewRepository(deps.DB), deps.Registration)

	authHandler := auth.NewHandler(authService, cfg.Server.Mode == gin.ReleaseMode)
	registrationHandler := registration.NewHandler(deps.Registration)
	courseHandler := course.NewHandler(courseService)
	categoryHandler := category.NewHandler(category.NewService(category.NewRepository(deps.DB)))
	timetableHandler := timetable.NewHandler(timetable.NewService(timetable.NewRepository(deps.DB)))
	userHandler := user.NewHandler(deps.Users)
	syslogHandler := syslog.NewHandler(syslog.NewService(syslog.NewRepository(deps.DB)))

	authn := middleware.JWTAuth(cfg.JWT.Secret, deps.Sessions)

	apiV1 := r.Group("/api/v1")
	{
		auth.RegisterRoutes(apiV1, authHandler, authn)

		authed := apiV1.Group("", authn)
		course.RegisterRoutes(authed, courseHandler)
		registration.RegisterRoutes(authed, registrationHandler)

		admin := authed.Group("/admin")
		course.RegisterAdminRoutes(admin, courseHandler)
		category.RegisterRoutes(admin, categoryHandler)
		timetable.RegisterRoutes(admin, timetableHandler)
		user.RegisterRoutes(admin, userHandler)
		registration.RegisterAdminRoutes(admin, registrationHandler)
		syslog.RegisterRoutes(admin, syslogHandler)
	}

	registration.RegisterPageRoutes(r.Group("", authn), registrationHandler)
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Fail),
				response.WithErrorMessage("database unavailable"),
			))
			return
		}
		dto.SuccessResponse(c, gin.H{"status": "ok"})
	}
}

func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	gin.SetMode(deps.Config.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), gin.Recovery())

	// cookies carry the session, so the origin list must be explicit
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.Config.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	initRoute(r, deps)

	return r, nil
}
