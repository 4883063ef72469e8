package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/in/http"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/cache"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/logger"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/schedule_store"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_engine"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_view_service"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/doctor_search_service"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/schedule_command_service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewZapLogger(string(cfg.App.Env), cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer mainLogger.Sync()
	logger := mainLogger.WithModule("Main")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Warn("app.timezone.invalid", out.LogFields{
			"timezone": cfg.App.Timezone,
			"error":    err.Error(),
		})
		loc = time.UTC
	}
	json_types.SetLocation(loc)

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
		"cacheDriver":     cfg.Cache.Driver,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	storeAdapter := schedule_store.NewScheduleStoreAdapter(cfg, logger.WithModule("ScheduleStoreAdapter"))

	var monthCache out.MonthCachePort
	var searchCache out.SearchCachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewCacheAdapter(cfg, logger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		monthCache = cacheAdapter

		switch cfg.Cache.Driver {
		case config.CacheDriverRedis:
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.RedisAddr,
				Password: cfg.Cache.RedisPassword,
				DB:       cfg.Cache.RedisDB,
			})
			defer redisClient.Close()

			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := redisClient.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				logger.Error("app.redis.ping_failed", out.LogFields{
					"addr":  cfg.Cache.RedisAddr,
					"error": err.Error(),
				})
				os.Exit(1)
			}

			searchCache = cache.NewRedisSearchCache(redisClient, cfg.Cache.RedisKeyPrefix, cfg.Cache.SearchTTL, logger)
		default:
			searchCache = cache.NewMemorySearchCache(cfg.Cache.SearchSize, cfg.Cache.SearchTTL, logger)
		}
	}

	newSearcher := func() calendar_view_service.DoctorSearcher {
		return doctor_search_service.NewDoctorSearchService(
			storeAdapter,
			searchCache,
			logger,
			cfg.Calendar.SearchDebounce,
		)
	}

	calendarService, err := calendar_view_service.NewCalendarViewService(
		storeAdapter,
		monthCache,
		newSearcher,
		logger,
		calendar_view_service.Config{
			Virtualizer: calendar_engine.VirtualizerConfig{
				MaxEventsPerDay: cfg.Calendar.MaxEventsPerDay,
				Enabled:         cfg.Calendar.VirtualizationEnabled,
				AutoThreshold:   cfg.Calendar.VirtualizationThreshold,
			},
			DedupScope: calendar_engine.DedupScope(cfg.Calendar.DedupScope),
			MaxViews:   cfg.Calendar.MaxViews,
		},
	)
	if err != nil {
		logger.Error("app.calendar.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	commandService := schedule_command_service.NewScheduleCommandService(storeAdapter, monthCache, logger)

	router := gin.Default()
	controller := http.NewCalendarController(
		calendarService,
		commandService,
		cfg,
		logger.WithModule("HttpController"),
	)
	controller.RegisterRoutes(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewScheduleChangeListener(
			calendarService,
			cfg,
			logger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	server := &nethttp.Server{
		Addr:    cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("app.http.shutdown_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"store": map[string]string{
					"url":      cfg.Store.URL,
					"username": cfg.Store.Username,
				},
				"rabbitmq": map[string]interface{}{
					"enabled":  cfg.RabbitMQ.Enabled,
					"queue":    cfg.RabbitMQ.Queue,
					"exchange": cfg.RabbitMQ.Exchange,
				},
				"cache": map[string]interface{}{
					"enabled":    cfg.Cache.Enabled,
					"driver":     cfg.Cache.Driver,
					"monthsSize": cfg.Cache.MonthsSize,
					"searchTTL":  cfg.Cache.SearchTTL.String(),
				},
			},
		})
	}
}
