package orch

import (
	"time"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/metrics"
)

// Orchestrator wires the realtime components together and is the single
// entry point transport adapters talk to.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Router   *app.Router
	Emit     *app.Emitter
	Presence *app.Presence
	Relay    *app.Relay
	Calls    *app.CallBroker
	Delivery *app.Dispatcher
	Pairing  *app.PairingBroker
	Store    core.Store
	Now      func() time.Time
}

type Options struct {
	Store       core.Store
	Push        core.PushGateway
	Metrics     *metrics.Metrics
	Policy      app.Policy
	PairingTTL  time.Duration
	CodeDigits  int
	StrictCalls bool
	RingTimeout time.Duration
}

func New(opts Options) *Orchestrator {
	if opts.Policy == nil {
		opts.Policy = app.SimplePolicy{}
	}
	reg := app.NewRegistry(opts.Metrics)
	rooms := app.NewRoomManager()
	router := app.NewRouter(reg, rooms)
	emit := app.NewEmitter(router, opts.Policy, opts.Metrics)
	pusher := app.NewPusher(opts.Push, opts.Metrics)

	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Router:   router,
		Emit:     emit,
		Presence: app.NewPresence(reg, emit, opts.Store),
		Relay:    app.NewRelay(emit, opts.Store),
		Calls:    app.NewCallBroker(emit, opts.Store, pusher, app.NewCallTracker(opts.RingTimeout), opts.StrictCalls),
		Delivery: app.NewDispatcher(emit, reg, opts.Store, pusher),
		Pairing:  app.NewPairingBroker(router, emit, opts.Store, opts.Metrics, opts.PairingTTL, opts.CodeDigits),
		Store:    opts.Store,
		Now:      time.Now,
	}
}
