package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bookeez/accounts/pkg/cryptox"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

var (
	ErrQueueFull = errors.New("notify: queue full")
	ErrStopped   = errors.New("notify: dispatcher stopped")
)

// Config tunes the Dispatcher. Zero values fall back to the defaults below.
type Config struct {
	QueueSize      int
	Workers        int
	Timeout        time.Duration // per delivery attempt
	MaxAttempts    uint
	RatePerSec     float64 // outbound sends per second across all workers
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

const (
	DefaultQueueSize      = 256
	DefaultWorkers        = 2
	DefaultTimeout        = 5 * time.Second
	DefaultMaxAttempts    = 3
	DefaultRatePerSec     = 50
	DefaultInitialBackoff = 200 * time.Millisecond
	DefaultMaxBackoff     = 5 * time.Second
)

func (c Config) normalized() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = DefaultRatePerSec
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = max(DefaultMaxBackoff, c.InitialBackoff)
	}
	return c
}

// Dispatcher fans queued messages out to a fixed pool of workers. Each
// message gets up to MaxAttempts tries with exponential backoff; failures are
// logged and dropped.
type Dispatcher struct {
	Sender Sender
	Logger *slog.Logger
	Config Config

	queue   chan Message
	limiter *rate.Limiter

	// ctx bounds every attempt; cancelled when Stop gives up waiting.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Call Start before Enqueue.
func NewDispatcher(sender Sender, logger *slog.Logger, cfg Config) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.normalized()
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		Sender:  sender,
		Logger:  logger,
		Config:  cfg,
		queue:   make(chan Message, cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), max(1, int(cfg.RatePerSec))),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. It is non-blocking; calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	for i := 0; i < d.Config.Workers; i++ {
		d.wg.Add(1)
		go d.run(i)
	}
	d.Logger.Info("notification dispatcher started",
		"workers", d.Config.Workers,
		"queue_size", d.Config.QueueSize,
	)
}

// Enqueue schedules msg for delivery without blocking. It fails with
// ErrQueueFull when the buffer is full and ErrStopped after Stop.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new messages and waits for the workers to drain the queue. If
// ctx ends first, in-flight attempts are cancelled and ctx's error returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.Logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		dropped := len(d.queue)
		d.cancel()
		<-done
		d.Logger.Warn("notification dispatcher stopped before draining", "dropped", dropped)
		return ctx.Err()
	}
}

// Pending reports how many messages are waiting for a worker.
func (d *Dispatcher) Pending() int { return len(d.queue) }

func (d *Dispatcher) run(worker int) {
	defer d.wg.Done()
	for msg := range d.queue {
		if d.ctx.Err() != nil {
			// Stop timed out; drain without sending.
			continue
		}
		d.deliver(worker, msg)
	}
}

func (d *Dispatcher) deliver(worker int, msg Message) {
	log := d.Logger.With(
		"worker", worker,
		"user_id", msg.UserID,
		"device", cryptox.FingerprintToken(msg.DeviceToken),
	)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.Config.InitialBackoff
	b.MaxInterval = d.Config.MaxBackoff

	attempts := 0
	op := func() (struct{}, error) {
		attempts++
		if err := d.limiter.Wait(d.ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		ctx, cancel := context.WithTimeout(d.ctx, d.Config.Timeout)
		defer cancel()
		return struct{}{}, d.Sender.Send(ctx, msg)
	}

	_, err := backoff.Retry(d.ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(d.Config.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug("push attempt failed, retrying", "err", err, "retry_in", next)
		}),
	)
	if err != nil {
		log.Warn("push notification dropped", "attempts", attempts, "err", err)
		return
	}
	log.Debug("push notification delivered", "attempts", attempts)
}
