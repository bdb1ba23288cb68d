package resources

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Closable is anything holding a resource that must be released on
// shutdown (connection pools, exporters).
type Closable interface {
	Close()
}

// DBInstance is the subset of pgxpool.Pool the archive needs. pgxmock
// satisfies it too, which is what the repository tests run against.
type DBInstance interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Configure wires viper to the environment and sets the defaults every
// deployment can override.
func Configure() {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DEBUG_PORT", "6060")
	viper.SetDefault("NLU_ENDPOINT", "http://localhost:9090")
	viper.SetDefault("NLU_TIMEOUT_SECONDS", 5)
	viper.SetDefault("AUDIT_SCHEDULE", "0 */5 * * * *")
	viper.SetDefault("OTEL_EXPORTER_ENDPOINT", "localhost:4317")
}

func CreateTracer(ctx context.Context) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tp, err := newTracerProvider(ctx)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(viper.GetString("OTEL_EXPORTER_ENDPOINT")),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create the OTLP exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
	), nil
}

func CreateDatabaseConnectionPool(ctx context.Context) (*pgxpool.Pool, error) {
	//nolint:nosprintfhostport
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		viper.GetString("DB_USER"), viper.GetString("DB_PASSWORD"),
		viper.GetString("DB_HOST"), viper.GetString("DB_PORT"), viper.GetString("DB_NAME")))
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Unable to parse database connection string: %v", err))
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Unable to connect to database: %v", err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Unable to ping to database: %v", err))
		return nil, fmt.Errorf("failed to ping to database: %w", err)
	}

	return pool, nil
}
