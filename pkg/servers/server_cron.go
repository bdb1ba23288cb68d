package servers

import (
	"context"

	"github.com/qmdx00/lifecycle"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// cronServer runs periodic jobs under the application lifecycle so a
// shutdown always stops the ticker instead of leaking it.
type cronServer struct {
	ctx          context.Context //nolint:containedctx
	name         string
	internal     *cron.Cron
	closeChannel chan struct{}
}

// NewCronServer schedules fn on the given six-field cron spec.
func NewCronServer(name, spec string, fn func(ctx context.Context)) (lifecycle.Server, error) {
	server := &cronServer{
		name:         name,
		internal:     cron.New(cron.WithSeconds()),
		closeChannel: make(chan struct{}),
	}

	_, err := server.internal.AddFunc(spec, func() {
		fn(log.Logger.WithContext(context.Background()))
	})
	if err != nil {
		return nil, ErrServerFailedToStart(name, err)
	}

	return server, nil
}

func (server *cronServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Msg("starting up")

	server.ctx = ctx
	server.internal.Start()
	<-server.closeChannel

	return nil
}

func (server *cronServer) Stop(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
	defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

	stopCtx := server.internal.Stop()
	<-stopCtx.Done()

	close(server.closeChannel)

	return nil
}
