package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkers/carwash/internal/logging"
	"github.com/avelkers/carwash/internal/server/auth"
)

// NewRouter wires the /auth endpoints and a root health probe.
func NewRouter(h *Handler, codec *auth.Codec, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.GET("/me", Authenticate(codec), h.Me)

	return r
}
