package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/gesture"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/plugin"
	"github.com/ayusman/robohand/internal/session"
	"github.com/ayusman/robohand/internal/store"
)

// DefaultQueueSize is the dispatcher backlog when none is configured.
const DefaultQueueSize = 64

// Broadcaster fans a frame's output out to status listeners. Implementations
// must not block.
type Broadcaster interface {
	Broadcast(out session.Output)
}

// DispatcherConfig wires the side effects of session outputs. Every field is
// optional.
type DispatcherConfig struct {
	Store       *store.Store
	Plugins     *plugin.Manager
	Executor    *plugin.Executor
	Metrics     *metrics.Metrics
	Broadcaster Broadcaster
	QueueSize   int
	Log         zerolog.Logger
}

type jobKind int

const (
	jobOpen jobKind = iota
	jobEvent
	jobEnd
)

type job struct {
	kind      jobKind
	sessionID string
	source    string
	out       session.Output
	at        time.Time
}

// Dispatcher moves session side effects off the frame path. History writes
// and plugin runs happen on a single worker in arrival order.
type Dispatcher struct {
	cfg   DispatcherConfig
	log   zerolog.Logger
	queue chan job

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Executor == nil {
		cfg.Executor = plugin.NewExecutor(5 * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:    cfg,
		log:    cfg.Log,
		queue:  make(chan job, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Open records the start of a session.
func (d *Dispatcher) Open(sessionID, source string, at time.Time) {
	d.cfg.Metrics.SessionOpened()
	d.enqueue(job{kind: jobOpen, sessionID: sessionID, source: source, at: at})
}

// End records the end of a session.
func (d *Dispatcher) End(sessionID string, at time.Time) {
	d.cfg.Metrics.SessionClosed()
	d.enqueue(job{kind: jobEnd, sessionID: sessionID, at: at})
}

// Dispatch handles one frame's output. Broadcast and metrics happen inline;
// outputs carrying an event are queued for the worker.
func (d *Dispatcher) Dispatch(out session.Output) {
	if out.Result.Ok() {
		d.cfg.Metrics.CommandRecognized(out.Gesture.String())
	}
	if d.cfg.Broadcaster != nil {
		d.cfg.Broadcaster.Broadcast(out)
	}
	if out.Event == session.EventNone {
		return
	}

	d.cfg.Metrics.Transition(out.Event.String())
	d.enqueue(job{kind: jobEvent, sessionID: out.SessionID, out: out, at: out.At})
}

// Close stops accepting work, drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
}

func (d *Dispatcher) enqueue(j job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("session", j.sessionID).Msg("dispatcher closed, dropping job")
		return false
	}

	select {
	case d.queue <- j:
		return true
	default:
		d.cfg.Metrics.DispatchDropped()
		d.log.Warn().Str("session", j.sessionID).Msg("dispatch queue full, dropping event")
		return false
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for j := range d.queue {
		switch j.kind {
		case jobOpen:
			d.openSession(j)
		case jobEnd:
			d.endSession(j)
		case jobEvent:
			d.recordEvent(j.out)
			if j.out.Event.Commands() {
				d.runBinding(j.out)
			}
		}
	}
}

func (d *Dispatcher) openSession(j job) {
	if d.cfg.Store == nil {
		return
	}
	err := d.cfg.Store.Sessions().Create(&store.Session{
		ID:        j.sessionID,
		Source:    j.source,
		Status:    session.Active.String(),
		StartedAt: j.at,
	})
	if err != nil {
		d.log.Error().Err(err).Str("session", j.sessionID).Msg("failed to record session")
	}
}

func (d *Dispatcher) endSession(j job) {
	if d.cfg.Store == nil {
		return
	}
	if err := d.cfg.Store.Sessions().End(j.sessionID, j.at); err != nil {
		d.log.Error().Err(err).Str("session", j.sessionID).Msg("failed to end session")
	}
}

func (d *Dispatcher) recordEvent(out session.Output) {
	if d.cfg.Store == nil {
		return
	}

	command := ""
	if out.Event != session.EventSuspended {
		command = out.Command
	}
	err := d.cfg.Store.Sessions().Record(&store.Event{
		SessionID: out.SessionID,
		Event:     out.Event.String(),
		Command:   command,
		Rule:      out.Rule,
		Status:    out.Status.String(),
		At:        out.At,
	})
	if err != nil {
		d.log.Error().Err(err).Str("session", out.SessionID).Msg("failed to record session event")
	}
}

// runBinding executes the plugin action bound to the output's command, if any.
func (d *Dispatcher) runBinding(out session.Output) {
	if d.cfg.Store == nil || d.cfg.Plugins == nil {
		return
	}
	cmd, err := gesture.ParseCommand(out.Command)
	if err != nil {
		return
	}

	binding, err := d.cfg.Store.Bindings().GetByCommand(cmd.String())
	if err != nil {
		d.log.Error().Err(err).Str("command", cmd.String()).Msg("failed to look up binding")
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	log := d.log.With().
		Str("session", out.SessionID).
		Str("command", cmd.String()).
		Str("plugin", binding.PluginName).
		Str("action", binding.ActionName).
		Logger()

	p, err := d.cfg.Plugins.Resolve(binding.PluginName, binding.ActionName)
	if err != nil {
		d.cfg.Metrics.PluginExecuted(binding.PluginName, err)
		log.Warn().Err(err).Msg("bound plugin unavailable")
		return
	}

	resp, err := d.cfg.Executor.Execute(d.ctx, p, &plugin.Request{
		Action:    binding.ActionName,
		Command:   cmd.String(),
		SessionID: out.SessionID,
		Config:    binding.Config,
	})
	if err == nil && !resp.Success {
		err = errors.New(resp.Error)
	}
	d.cfg.Metrics.PluginExecuted(binding.PluginName, err)
	if err != nil {
		log.Error().Err(err).Msg("plugin action failed")
		return
	}
	log.Debug().Msg("plugin action executed")
}

// Broadcasters fans one output out to several broadcasters.
type Broadcasters []Broadcaster

// Broadcast implements Broadcaster.
func (bs Broadcasters) Broadcast(out session.Output) {
	for _, b := range bs {
		b.Broadcast(out)
	}
}
