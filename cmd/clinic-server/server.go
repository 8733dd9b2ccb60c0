package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/isi/clinic/internal/client"
	"github.com/isi/clinic/internal/config"
	"github.com/isi/clinic/internal/domain/medecin"
	"github.com/isi/clinic/internal/domain/patient"
	"github.com/isi/clinic/internal/domain/rdv"
	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/auth"
	"github.com/isi/clinic/internal/platform/db"
	"github.com/isi/clinic/internal/platform/i18n"
	"github.com/isi/clinic/internal/platform/metrics"
	"github.com/isi/clinic/internal/platform/middleware"
	"github.com/isi/clinic/internal/platform/proxy"
	"github.com/isi/clinic/internal/platform/validation"
)

const version = "0.1.0"

type serverDeps struct {
	Logger   zerolog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Registry *prometheus.Registry
}

// newServer builds the echo instance for one service. Nothing is started.
func newServer(service string, cfg *config.Config, deps serverDeps) (*echo.Echo, error) {
	logger := deps.Logger

	catalog, err := i18n.NewCatalog(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	v, err := validation.New(catalog)
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)
	e.Validator = v

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "Accept-Language", middleware.RequestIDHeader},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(i18n.LocaleMiddleware(i18n.NewNegotiator(catalog.DefaultLocale())))

	metrics.RegisterCollectors(deps.Registry)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": service,
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(deps.Pool))
	e.GET("/metrics", metrics.Handler(deps.Registry))

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	if deps.Redis != nil {
		apiV1.Use(middleware.RedisRateLimit(deps.Redis, rateLimitCfg, time.Second))
	} else {
		apiV1.Use(middleware.RateLimit(rateLimitCfg))
	}
	apiV1.Use(middleware.Audit(logger))

	httpClient := &http.Client{Timeout: cfg.ClientTimeout}

	switch service {
	case config.ServicePatient:
		svc := patient.NewService(patient.NewRepoPG(deps.Pool), v, catalog)
		patient.NewHandler(svc).RegisterRoutes(apiV1)
		proxy.NewHandler(cfg.ProxyTargetURL, httpClient, logger).RegisterRoutes(e.Group("/proxy"))
	case config.ServiceMedecin:
		svc := medecin.NewService(medecin.NewRepoPG(deps.Pool), v, catalog)
		medecin.NewHandler(svc).RegisterRoutes(apiV1)
	case config.ServiceRdv:
		patients := client.NewPatientClient(cfg.PatientServiceURL, httpClient, logger)
		medecins := client.NewMedecinClient(cfg.MedecinServiceURL, httpClient, logger)
		svc := rdv.NewService(rdv.NewRepoPG(deps.Pool), v, patients, medecins, catalog)
		rdv.NewHandler(svc).RegisterRoutes(apiV1)
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}

	return e, nil
}
