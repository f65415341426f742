package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/logging"
	"github.com/manikadiri/healthnav/internal/ports"
)

const DefaultPollInterval = 15 * time.Second

// StatusSink receives queue reports fetched by the poller.
type StatusSink interface {
	ApplyStatusUpdate(ctx context.Context, code domain.TokenCode, status domain.QueueStatus) (UpdateEvent, bool, error)
}

// QueuePoller asks the token service for the position of one token on a
// fixed interval. At most one token is polled at a time.
//
// Ticks run concurrently, so replies can arrive out of order. Replies are
// applied in the order their ticks fired, not the order they arrive: a reply
// from a tick older than one already applied is discarded.
type QueuePoller struct {
	source   ports.TokenService
	sink     StatusSink
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	active *pollHandle
	wg     sync.WaitGroup
}

type pollHandle struct {
	code   domain.TokenCode
	ctx    context.Context
	cancel context.CancelFunc

	// fired numbers ticks in the order they were scheduled; a response is
	// applied only if no later tick has been applied already.
	fired   atomic.Uint64
	mu      sync.Mutex
	applied uint64
}

func NewQueuePoller(source ports.TokenService, sink StatusSink, interval time.Duration, logger *log.Logger) *QueuePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &QueuePoller{
		source:   source,
		sink:     sink,
		interval: interval,
		logger:   logging.OrDiscard(logger),
	}
}

func (p *QueuePoller) Interval() time.Duration {
	return p.interval
}

// Start begins polling code, replacing any polling already in progress.
func (p *QueuePoller) Start(code domain.TokenCode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		p.active.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := &pollHandle{code: code, ctx: ctx, cancel: cancel}
	p.active = handle

	p.wg.Add(1)
	go p.run(handle)

	p.logger.Debug("queue polling started", "code", code, "interval", p.interval)
}

// Stop ends polling. Requests already in flight are cancelled and their
// results discarded. Stop does not wait for them; use Wait for that.
func (p *QueuePoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return
	}
	p.active.cancel()
	p.logger.Debug("queue polling stopped", "code", p.active.code)
	p.active = nil
}

func (p *QueuePoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

func (p *QueuePoller) Code() (domain.TokenCode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return "", false
	}
	return p.active.code, true
}

// Wait blocks until every polling goroutine started so far has returned.
func (p *QueuePoller) Wait() {
	p.wg.Wait()
}

func (p *QueuePoller) run(handle *pollHandle) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.ctx.Done():
			return
		case <-ticker.C:
			seq := handle.fired.Add(1)
			p.wg.Add(1)
			go p.tick(handle, seq)
		}
	}
}

func (p *QueuePoller) tick(handle *pollHandle, seq uint64) {
	defer p.wg.Done()

	status, err := p.source.Status(handle.ctx, handle.code)
	if err != nil {
		if handle.ctx.Err() == nil {
			p.logger.Debug("queue status poll failed", "code", handle.code, "err", err)
		}
		return
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	if !p.isActive(handle) {
		return
	}
	if seq < handle.applied {
		p.logger.Debug("dropping out-of-order queue status", "code", handle.code, "tick", seq)
		return
	}

	event, applied, err := p.sink.ApplyStatusUpdate(handle.ctx, handle.code, status)
	if err != nil {
		p.logger.Warn("could not apply queue status", "code", handle.code, "err", err)
		return
	}
	if !applied {
		return
	}
	handle.applied = seq

	if event.Current != nil && event.Current.Served() {
		p.release(handle)
		p.logger.Info("token reached the front of the queue, polling stopped", "code", handle.code)
	}
}

func (p *QueuePoller) isActive(handle *pollHandle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active == handle && handle.ctx.Err() == nil
}

func (p *QueuePoller) release(handle *pollHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle.cancel()
	if p.active == handle {
		p.active = nil
	}
}
