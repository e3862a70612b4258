package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-composer/internal/auth"
	"resume-composer/internal/educations"
	"resume-composer/internal/experiences"
	"resume-composer/internal/profiles"
	"resume-composer/internal/resumes"
	"resume-composer/internal/sections"
	"resume-composer/internal/services/health"
	"resume-composer/internal/shared/config"
	"resume-composer/internal/shared/metrics"
	"resume-composer/internal/shared/server/middleware"
	"resume-composer/internal/shared/server/respond"
	"resume-composer/internal/snippets"
	"resume-composer/internal/users"
)

// RouterDeps carries the handlers the router mounts. Bootstrap builds the
// dependency graph; the router only wires middleware and routes.
type RouterDeps struct {
	Config            config.Config
	UserHandler       *users.Handler
	ProfileHandler    *profiles.Handler
	ResumeHandler     *resumes.Handler
	EducationHandler  *educations.Handler
	ExperienceHandler *experiences.Handler
	SectionHandler    *sections.Handler
	SnippetHandler    *snippets.Handler
	GoogleAuth        *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: authRateLimitGroup,
			Rules: map[string]middleware.RateLimitRule{
				"AUTH": {Rate: 1, Burst: 10},
			},
		}),
	)

	healthSvc := health.NewService()
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.EducationHandler != nil {
		deps.EducationHandler.RegisterRoutes(api)
	}
	if deps.ExperienceHandler != nil {
		deps.ExperienceHandler.RegisterRoutes(api)
	}
	if deps.SectionHandler != nil {
		deps.SectionHandler.RegisterRoutes(api)
	}
	if deps.SnippetHandler != nil {
		deps.SnippetHandler.RegisterRoutes(api)
	}

	return r
}

// authRateLimitGroup throttles credential endpoints; everything else passes.
func authRateLimitGroup(c *gin.Context) string {
	if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/") {
		return "AUTH"
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
