package servers

import (
	"github.com/qmdx00/lifecycle"
)

var (
	_ Server = (*httpServer)(nil)
	_ Server = (*cronServer)(nil)
	_ Server = (*baseServer)(nil)
)

type Server interface {
	lifecycle.Server
}

var (
	_ Application = (*lifecycle.App)(nil)
)

type Application interface {
	ID() string
	Name() string
	Version() string
	Metadata() map[string]string
	Attach(name string, server lifecycle.Server)
	Run() error
}
