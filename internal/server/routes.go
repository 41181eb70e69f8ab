package server

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"profilehub/internal/apperror"
	"profilehub/internal/middleware"
	"profilehub/internal/response"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.CORS(s.corsOrigins))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		api.POST("/register", s.auth.Register)
		api.POST("/login", s.auth.Login)

		protected := api.Group("", middleware.SessionAuth(s.sessions))
		protected.POST("/logout", s.auth.Logout)
		protected.GET("/profile", s.profile.GetProfile)
		protected.POST("/profile", s.profile.UpdateProfile)
	}

	allowed := allowedMethods(r.Routes())
	// session-only paths answer 401 before 405
	protectedPaths := map[string]bool{
		"/api/logout":  true,
		"/api/profile": true,
	}
	r.NoMethod(func(c *gin.Context) {
		path := c.Request.URL.Path
		// gin may have set Allow already; only a 405 carries it
		c.Writer.Header().Del("Allow")
		if protectedPaths[path] && !middleware.Authenticate(c, s.sessions) {
			return
		}
		if methods, ok := allowed[path]; ok {
			c.Header("Allow", methods)
		}
		response.Error(c, apperror.MethodNotAllowed())
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperror.NotFound())
	})

	return r
}

// allowedMethods maps each registered path to its Allow header value.
func allowedMethods(routes gin.RoutesInfo) map[string]string {
	byPath := make(map[string][]string)
	for _, route := range routes {
		byPath[route.Path] = append(byPath[route.Path], route.Method)
	}

	allowed := make(map[string]string, len(byPath))
	for path, methods := range byPath {
		sort.Strings(methods)
		allowed[path] = strings.Join(methods, ", ")
	}
	return allowed
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := map[string]map[string]string{
		"postgres": s.db.Health(ctx),
		"redis":    pingStatus(ctx, s.sessionStore.Ping),
		"mongo":    pingStatus(ctx, s.profileStore.Ping),
	}

	status := http.StatusOK
	for _, store := range resp {
		if store["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}

func pingStatus(ctx context.Context, ping func(context.Context) error) map[string]string {
	if err := ping(ctx); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}
