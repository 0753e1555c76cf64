package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"weekstay/internal/infra/config"
	"weekstay/internal/infra/obs"
)

type ScheduleHTTP interface {
	Preview(c *gin.Context)
}

type CalendarHTTP interface {
	Week(c *gin.Context)
	ToggleSlot(c *gin.Context)
	ToggleFullDay(c *gin.Context)
}

type ReservationHTTP interface {
	Submit(c *gin.Context)
	Get(c *gin.Context)
	ListByGuest(c *gin.Context)
}

type DraftHTTP interface {
	Get(c *gin.Context)
	Put(c *gin.Context)
}

type Handlers struct {
	Schedule    ScheduleHTTP
	Calendar    CalendarHTTP
	Reservation ReservationHTTP
	Draft       DraftHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Schedule != nil {
		api.GET("/listings/:id/schedule/preview", h.Schedule.Preview)
	}
	if h.Calendar != nil {
		api.GET("/listings/:id/calendar", h.Calendar.Week)
		api.POST("/listings/:id/calendar/slots", h.Calendar.ToggleSlot)
		api.POST("/listings/:id/calendar/days", h.Calendar.ToggleFullDay)
	}
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Submit)
		api.GET("/reservations/:id", h.Reservation.Get)
		api.GET("/guests/:id/reservations", h.Reservation.ListByGuest)
	}
	if h.Draft != nil {
		api.GET("/guests/:id/schedule-draft", h.Draft.Get)
		api.PUT("/guests/:id/schedule-draft", h.Draft.Put)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
