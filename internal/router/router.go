// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"cogsuite-go/internal/config"
	"cogsuite-go/internal/handlers"
	"cogsuite-go/internal/models"
	"cogsuite-go/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, battery *models.Battery, runs *services.RunManager) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("cogsuite_session", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	router.Static("/assets", "./assets")

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log)
	userHandler := handlers.NewUserHandler(log)
	tasksHandler := handlers.NewTasksHandler(log, battery, runs)
	resultsHandler := handlers.NewResultsHandler(log, battery)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/api/csrf", CSRFToken)
	router.POST("/login", limiter, authHandler.Login)
	router.POST("/register", limiter, authHandler.Register)
	router.POST("/logout", authHandler.Logout)

	authorized := router.Group("/")
	authorized.Use(AuthRequired())
	{
		api := authorized.Group("/api")
		{
			api.GET("/tasks", tasksHandler.ListTasks)
			api.GET("/tasks/:key/metrics", resultsHandler.Metrics)
			api.GET("/tasks/:key/history", tasksHandler.History)
			api.POST("/tasks/:key/runs", tasksHandler.StartRun)

			api.POST("/runs/:id/respond", tasksHandler.Respond)
			api.GET("/runs/:id/snapshot", tasksHandler.Snapshot)
			api.POST("/runs/:id/reset", tasksHandler.ResetRun)

			api.POST("/submissions/tmt", tasksHandler.SubmitTMT)
			api.POST("/submissions/flanker", tasksHandler.SubmitFlanker)
		}

		authorized.GET("/ws/runs/:id", tasksHandler.RunSocket)
		authorized.GET("/results", resultsHandler.ShowResults)

		profileRoutes := authorized.Group("/profile")
		{
			profileRoutes.GET("", userHandler.Profile)
			profileRoutes.POST("/update-info", userHandler.UpdateInfo)
			profileRoutes.POST("/update-password", userHandler.UpdatePassword)
			profileRoutes.POST("/delete", userHandler.DeleteAccount)
		}
	}

	return router
}
