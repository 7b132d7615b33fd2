// The public face of ARTX for users of this package.

package artx

import (
	"context"

	"github.com/sirupsen/logrus"

	artx_internal "github.com/mhx/artx/internal"
)

const (
	PrioUserOffset = artx_internal.PrioUserOffset
	PrioUserMax    = artx_internal.PrioUserMax
	PrioIdle       = artx_internal.PrioIdle
)

type (
	TCB             = artx_internal.TCB
	RCB             = artx_internal.RCB
	RoutineFunc     = artx_internal.RoutineFunc
	RoutineState    = artx_internal.RoutineState
	TaskList        = artx_internal.TaskList
	TaskOpt         = artx_internal.TaskOpt
	Config          = artx_internal.Config
	TickConfig      = artx_internal.TickConfig
	MonitorConfig   = artx_internal.MonitorConfig
	SyncConfig      = artx_internal.SyncConfig
	LoggerConfig    = artx_internal.LoggerConfig
	TransportConfig = artx_internal.TransportConfig
	Transport       = artx_internal.Transport
	HiresTime       = artx_internal.HiresTime
	SyncStatus      = artx_internal.SyncStatus
	Kernel          = artx_internal.Kernel
	ConfigError     = artx_internal.ConfigError
)

const (
	RoutineDisabled = artx_internal.RoutineDisabled
	RoutineEnabled  = artx_internal.RoutineEnabled
)

var (
	NewTask          = artx_internal.NewTask
	NewIdleTask      = artx_internal.NewIdleTask
	NewRoutine       = artx_internal.NewRoutine
	NewTaskList      = artx_internal.NewTaskList
	NewKernel        = artx_internal.NewKernel
	NewStdoutTransport = artx_internal.NewStdoutTransport
	WithOffset       = artx_internal.WithOffset
	DefaultConfig    = artx_internal.DefaultConfig
	LoadConfig       = artx_internal.LoadConfig
	DeltaTime        = artx_internal.DeltaTime
)

// NewCompLogger creates a component logger tagged with comp=compName,
// matching every other internal package's logging idiom.
func NewCompLogger(comp string) *logrus.Entry {
	return artx_internal.NewCompLogger(comp)
}

// SetLogger configures the root logger; nil restores the default config.
func SetLogger(cfg *LoggerConfig) error {
	return artx_internal.SetLogger(cfg)
}

// GetRootLogger returns the root logger, typed as any to keep logrus an
// internal implementation detail from the caller's point of view, mirroring
// the teacher's own GetRootLogger().
func GetRootLogger() any { return artx_internal.RootLogger }

// Run builds a Kernel from cfg and tasks and drives it at the nominal tick
// rate until ctx is cancelled. It is the one-call entry point for a demo or
// production binary that doesn't need fine-grained control over individual
// Tick() calls.
func Run(ctx context.Context, cfg *Config, tasks *TaskList, transport Transport) (*Kernel, error) {
	k, err := NewKernel(cfg, tasks, transport)
	if err != nil {
		return nil, err
	}
	k.Run(ctx)
	return k, nil
}
