package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"calendar-assistant/core"
	"calendar-assistant/pkg/resources"
	"calendar-assistant/pkg/servers"
)

func main() {
	name, version := "calendar-assistant", "1.0"

	// 1. Config (env, .env optional)
	_ = godotenv.Load()
	resources.Configure()

	// 2. Logger (zerolog, bridged to OTel logs via hook)
	log.Logger = log.Logger.With().Str("service", name).Str("version", version).Logger()
	log.Logger = log.Logger.Hook(resources.NewZerologHook(name))

	ctx := log.Logger.WithContext(context.Background())

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 3. Telemetry (traces)
	stopTracerFn, err := resources.CreateTracer(ctx)
	if err != nil {
		startupLogger.Warn().Err(err).Msg("tracing disabled, unable to setup otel exporter")
	}
	defer func() {
		stopCtx, cancelFn := context.WithTimeout(ctx, 15*time.Second)
		defer cancelFn()

		_ = stopTracerFn(stopCtx)
	}()

	// 4. Persistence collaborator: the event log archive is optional,
	// the in-memory store stays authoritative either way.
	var closables []resources.Closable

	archive := core.NewNopArchive()

	if viper.GetString("DB_HOST") != "" {
		pool, err := resources.CreateDatabaseConnectionPool(ctx)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg("unable to create database connection pool")
		}

		archive = core.NewArchive(pool)
		closables = append(closables, pool)
	}

	// 5. Domain wiring
	store := core.NewEventStore()
	nlu := core.NewHTTPNLUClient(
		viper.GetString("NLU_ENDPOINT"),
		time.Duration(viper.GetInt("NLU_TIMEOUT_SECONDS"))*time.Second,
	)
	interpreter := core.NewInterpreter(store, nlu, archive)
	projector := core.NewProjector(store)
	auditor := core.NewConflictAuditor(store)
	handlers := core.NewHandlers(store, interpreter, projector, archive)

	// 6. REST surface

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(otelgin.Middleware(name))
	restHandler.Use(resources.NewHTTPMetrics(name).Middleware())
	restHandler.Use(resources.RequestIdMiddleware())

	restHandler.POST("/events", handlers.PostEvents)
	restHandler.GET("/events", handlers.GetEvents)
	restHandler.GET("/events/:id", handlers.GetEvent)
	restHandler.PATCH("/events/:id", handlers.PatchEvent)
	restHandler.DELETE("/events/:id", handlers.DeleteEvent)
	restHandler.GET("/days/:day/events", handlers.GetDayEvents)
	restHandler.POST("/commands", handlers.PostCommands)
	restHandler.GET("/suggestions", handlers.GetSuggestions)
	restHandler.GET("/conflicts", handlers.GetConflicts)
	restHandler.GET("/views/today", handlers.GetTodayView)
	restHandler.GET("/views/week", handlers.GetWeekView)
	restHandler.GET("/views/week.ics", handlers.GetWeekFeed)
	restHandler.GET("/views/cell", handlers.GetCellView)
	restHandler.GET("/archive", handlers.GetArchive)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 7. Lifecycle

	auditServer, err := servers.NewCronServer("conflict-auditor", viper.GetString("AUDIT_SCHEDULE"),
		func(ctx context.Context) { auditor.Scan(ctx) })
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build conflict audit server")
	}

	app := lifecycle.NewApp(
		lifecycle.WithName(name),
		lifecycle.WithVersion(version),
		lifecycle.WithSignal(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT),
	)

	app.Attach("base-server", servers.NewBaseServer(closables...))
	app.Attach("debug-server", servers.NewHttpServer("debug-server", "localhost", viper.GetString("DEBUG_PORT"), debugHandler))
	app.Attach("rest-server", servers.NewHttpServer("rest-server", viper.GetString("SERVER_HOST"), viper.GetString("SERVER_PORT"), restHandler))
	app.Attach("audit-server", auditServer)

	startupLogger.Info().Msg("application running")

	if err := app.Run(); err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}
}
