package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/walkability/docs"
	"lintang/walkability/pkg/config"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/kv"
	"lintang/walkability/pkg/server/rest"
	"lintang/walkability/pkg/server/rest/service"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

//	@title			walkability API
//	@version		1.0
//	@description	walking accessibility score and isochrones over openstreetmap data

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	config.LoadEnv()
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := httplog.NewLogger("walkability", httplog.Options{
		LogLevel:         cfg.SlogLevel(),
		JSON:             cfg.LogJSON,
		Concise:          true,
		MessageFieldName: "message",
		LevelFieldName:   "severity",
		TimeFieldFormat:  time.RFC3339,
		Tags: map[string]string{
			"version": "v1.0",
			"source":  cfg.Source,
		},
		QuietDownRoutes: []string{
			"/metrics",
		},
		QuietDownPeriod: 10 * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, err := facility.NewClassifier(facility.DefaultCategories())
	if err != nil {
		log.Fatal(err)
	}
	strategy, err := engine.ParseStrategy(cfg.Strategy)
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.New(classifier, engine.Options{
		Logger:   logger.Logger,
		Strategy: strategy,
		Workers:  cfg.Workers,
	})

	var kvDB *kv.KVDB
	if cfg.Source == config.SourcePBF || cfg.Cache {
		db, err := pebble.Open(cfg.DBPath, &pebble.Options{})
		if err != nil {
			log.Fatal(err)
		}
		kvDB = kv.NewKVDB(db)
		defer kvDB.Close()
	}

	mapProvider, closeProvider, err := buildProvider(ctx, cfg, classifier, kvDB, logger.Logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeProvider()

	accessibilitySvc := service.NewAccessibilityService(mapProvider, eng, service.Defaults{
		RadiusMeters:         cfg.RadiusMeters,
		SpeedMetersPerMinute: cfg.Speed,
		TripTimes:            cfg.TripTimes,
	}, logger.Logger)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(logger, []string{"/metrics"}))
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost"+cfg.ListenAddr+"/swagger/doc.json"),
	))

	rest.AccessibilityRouter(r, accessibilitySvc, m)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Info("server started", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
}
