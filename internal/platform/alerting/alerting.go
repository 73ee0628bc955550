// Package alerting delivers side-channel alerts raised by the engine, such
// as the emergency tone and the compression metronome timer. Delivery is
// fire-and-forget: a failed or slow sink never blocks the clinical flow.
package alerting

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind identifies the alert channel.
type Kind string

const (
	KindEmergencyTone    Kind = "emergency_tone"
	KindCompressionTimer Kind = "compression_timer"
)

// Alert is a single outbound alert.
type Alert struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id"`
	ActionID  string    `json:"action_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives alerts. Implementations must be safe for concurrent use.
type Sink interface {
	Deliver(ctx context.Context, a Alert) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, a Alert) error

func (f SinkFunc) Deliver(ctx context.Context, a Alert) error {
	return f(ctx, a)
}

// Dispatcher fans alerts out to registered sinks from a single worker
// goroutine. Enqueueing never blocks; when the queue is full the alert is
// dropped and logged.
type Dispatcher struct {
	logger zerolog.Logger

	mu    sync.RWMutex
	sinks []Sink

	queue chan Alert

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with the given queue depth and starts
// its worker.
func NewDispatcher(logger zerolog.Logger, queueDepth int) *Dispatcher {
	if queueDepth <= 0 {
		queueDepth = 64
	}
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Alert, queueDepth),
		done:   make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// AddSink registers a sink. Sinks added after alerts were enqueued receive
// only subsequent alerts.
func (d *Dispatcher) AddSink(s Sink) {
	d.mu.Lock()
	d.sinks = append(d.sinks, s)
	d.mu.Unlock()
}

// EmergencyTone enqueues an emergency tone alert for the session.
func (d *Dispatcher) EmergencyTone(sessionID string) {
	d.enqueue(Alert{Kind: KindEmergencyTone, SessionID: sessionID})
}

// CompressionTimer enqueues a compression timer alert for the session.
func (d *Dispatcher) CompressionTimer(sessionID, actionID string) {
	d.enqueue(Alert{Kind: KindCompressionTimer, SessionID: sessionID, ActionID: actionID})
}

func (d *Dispatcher) enqueue(a Alert) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	select {
	case <-d.done:
		return
	default:
	}

	select {
	case d.queue <- a:
	default:
		d.logger.Warn().
			Str("kind", string(a.Kind)).
			Str("session_id", a.SessionID).
			Msg("alert queue full, dropping alert")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case a := <-d.queue:
			d.deliver(a)
		case <-d.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case a := <-d.queue:
					d.deliver(a)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(a Alert) {
	d.mu.RLock()
	sinks := make([]Sink, len(d.sinks))
	copy(sinks, d.sinks)
	d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, s := range sinks {
		if err := s.Deliver(ctx, a); err != nil {
			d.logger.Error().Err(err).
				Str("kind", string(a.Kind)).
				Str("session_id", a.SessionID).
				Msg("alert delivery failed")
		}
	}
}

// Close stops the worker after draining the queue. Safe to call more than
// once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}
