// Package api serves the classical album management HTTP API consumed by
// the web frontend.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clefbase/clefbase/composer/model"
	"github.com/clefbase/clefbase/composer/sqlmodel"
)

// ComposerStore the data access the handlers need. Satisfied by
// *composer.Store; tests substitute a fake.
type ComposerStore interface {
	Create(ip *sqlmodel.ComposerInsertParam) (*model.Composer, error)
	List(skip, limit uint64) ([]*model.Composer, error)
	Get(id int) (*model.Composer, error)
	Update(id int, up *sqlmodel.ComposerUpdateParam) (*model.Composer, error)
	Delete(id int) error
}

// Config api server configuration
type Config struct {
	// AllowOrigin the frontend origin allowed by CORS. Wildcard is not
	// used because the frontend sends credentials.
	AllowOrigin string
	// Version reported by the info endpoint
	Version string
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(store ComposerStore, cfg Config) (r *gin.Engine) {
	r = gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Classical Album Management API",
			"docs":    "/docs",
			"version": cfg.Version,
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	registerDocRoutes(r)

	h := &composerHandler{store: store}
	grp := r.Group("/api/composers")
	{
		grp.POST("/", h.create)
		grp.GET("/", h.list)
		grp.GET("/:id", h.get)
		grp.PUT("/:id", h.update)
		grp.DELETE("/:id", h.delete)
	}

	return r
}

// requestLogger logs one line per request via zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
