package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/schedule_store"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/in"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

type CalendarController struct {
	calendar  in.CalendarViewUseCase
	schedules in.ScheduleCommandUseCase
	cfg       *config.Config
	logger    out.LoggerPort
}

func NewCalendarController(
	calendar in.CalendarViewUseCase,
	schedules in.ScheduleCommandUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) *CalendarController {
	return &CalendarController{
		calendar:  calendar,
		schedules: schedules,
		cfg:       cfg,
		logger:    logger,
	}
}

func (c *CalendarController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.health)

	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		views := api.Group("/calendar/views")
		views.POST("", c.openView)
		views.GET("/:viewId", c.getView)
		views.DELETE("/:viewId", c.closeView)
		views.POST("/:viewId/refresh", c.refreshView)
		views.PUT("/:viewId/filter", c.applyFilter)
		views.DELETE("/:viewId/filter", c.clearFilter)
		views.PUT("/:viewId/range", c.navigate)
		views.GET("/:viewId/doctors", c.searchDoctors)

		api.POST("/calendar/stats", c.monthStats)

		schedules := api.Group("/schedules")
		schedules.POST("/dates", c.createForDates)
		schedules.POST("/month", c.createForMonth)
		schedules.GET("/month/plan", c.planMonth)
		schedules.DELETE("/:scheduleId", c.deleteSchedule)
		schedules.PATCH("/:scheduleId/slots/:slotId", c.updateSlotStatus)
	}
}

func (c *CalendarController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.cfg.App.Version,
	})
}

func (c *CalendarController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !c.validClient(username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func (c *CalendarController) validClient(username, password string) bool {
	valid := false
	for _, client := range c.cfg.Auth.BasicClients {
		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
		if userMatch && passMatch {
			valid = true
		}
	}
	return valid
}

// respondError maps service errors onto status codes.
func (c *CalendarController) respondError(ctx *gin.Context, event string, err error) {
	status := http.StatusInternalServerError
	var storeErr *schedule_store.StoreError

	switch {
	case errors.Is(err, domain.ErrViewNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSlotLabel),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrDoctorRequired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSearchSuperseded), errors.Is(err, domain.ErrSearchStale):
		status = http.StatusConflict
	case errors.As(err, &storeErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		c.logger.Error(event, out.LogFields{
			"path":  ctx.FullPath(),
			"error": err.Error(),
		})
	} else {
		c.logger.Debug(event, out.LogFields{
			"path":   ctx.FullPath(),
			"status": status,
			"error":  err.Error(),
		})
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
}
