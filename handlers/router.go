package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

const requestIDHeader = "X-Request-ID"

var templateFuncs = template.FuncMap{
	"pct": func(count, total int) int {
		if total <= 0 {
			return 0
		}
		return count * 100 / total
	},
}

// NewRouter wires the dashboard page, the JSON API and the operational
// endpoints onto a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(h.logger))

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/dashboard", h.requireDataset(), h.Dashboard)

	api := r.Group("/api", h.requireDataset())
	{
		api.GET("/view", h.GetView)
		api.GET("/state", h.GetState)
		api.GET("/stats", h.GetStats)
		api.GET("/tags", h.GetTags)
		api.GET("/charts", h.GetCharts)

		api.POST("/search", h.SetSearch)
		api.POST("/tag", h.SetTag)
		api.POST("/recommended", h.SetRecommended)
		api.POST("/sort/:key", h.ClickSort)
		api.POST("/likes", h.ToggleLike)
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
