package app

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/config"
	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/logging"
	"github.com/sar-ops/rosterd/internal/metrics"
	"github.com/sar-ops/rosterd/internal/qual"
)

type App struct {
	DB   *sql.DB
	Log  *logging.Log
	Cfg  *config.Config
	Qual *qual.Service
}

func New(database *sql.DB, log *logging.Log, cfg *config.Config, qualSvc *qual.Service) *App {
	return &App{DB: database, Log: log, Cfg: cfg, Qual: qualSvc}
}

func (a *App) Router() *gin.Engine {
	if strings.ToLower(a.Cfg.Env) == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), a.observe())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.Cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", a.healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/api/login", a.login)

	api := router.Group("/api")
	api.Use(a.requireAuth())
	{
		api.GET("/members", a.listMembers)
		api.GET("/members/:id", a.getMember)
		api.GET("/members/:id/certifications", a.listMemberCertifications)
		api.GET("/members/:id/signoffs", a.listMemberSignoffs)
		api.GET("/courses", a.listCourses)
		api.GET("/positions", a.listPositions)
		api.GET("/positions/:id/requirements", a.listPositionRequirements)
		api.GET("/tasks", a.listTasks)
		api.GET("/trainings", a.listTrainings)
		api.GET("/calls", a.listCalls)
		api.GET("/events", a.listEvents)
		api.GET("/certifications/expiring", a.listExpiringCertifications)
		api.GET("/readiness", a.scanReadiness)
		api.GET("/members/:id/positions/:pid/requirements", a.checkPositionRequirements)
		api.GET("/export/roster", a.exportRoster)
	}

	admin := router.Group("/api")
	admin.Use(a.requireAuth(), a.requireAdmin())
	{
		admin.POST("/members", a.createMember)
		admin.PATCH("/members/:id", a.updateMember)
		admin.POST("/members/:id/certifications", a.addCertification)
		admin.POST("/members/:id/signoffs", a.addSignoff)
		admin.POST("/members/:id/positions/:pid/approve", a.approvePosition)
		admin.POST("/courses", a.createCourse)
		admin.PATCH("/courses/:id", a.updateCourse)
		admin.POST("/positions", a.createPosition)
		admin.PATCH("/positions/:id", a.updatePosition)
		admin.POST("/positions/:id/requirements", a.createRequirement)
		admin.DELETE("/requirements/:id", a.deleteRequirement)
		admin.POST("/positions/:id/groups", a.createRequirementGroup)
		admin.DELETE("/groups/:id", a.deleteRequirementGroup)
		admin.POST("/tasks", a.createTask)
		admin.POST("/trainings", a.createTraining)
		admin.POST("/trainings/:id/attendance", a.addTrainingAttendance)
		admin.POST("/calls", a.createCall)
		admin.POST("/calls/:id/attendance", a.addCallAttendance)
		admin.POST("/events", a.createEvent)
		admin.POST("/events/:id/attendance", a.addEventAttendance)
	}

	return router
}

type HTTPServer struct {
	srv  *http.Server
	done chan struct{}
}

// Start serves the router and shuts down cleanly when ctx is cancelled.
func Start(ctx context.Context, addr string, handler http.Handler) *HTTPServer {
	h := &HTTPServer{
		srv:  &http.Server{Addr: addr, Handler: handler},
		done: make(chan struct{}),
	}

	go func() {
		_ = h.srv.ListenAndServe() // closed via Shutdown below
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = h.srv.Shutdown(shCtx)
		close(h.done)
	}()

	return h
}

// Wait blocks until the server has finished shutting down.
func (h *HTTPServer) Wait() { <-h.done }

func (a *App) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := a.DB.PingContext(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: %s", err.Error())
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}

// observe records per-route counters and latency and tags the request
// context with the operation name for downstream logs.
func (a *App) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx := ctxutil.WithOp(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		metrics.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
