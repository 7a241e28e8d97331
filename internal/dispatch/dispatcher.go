package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

// Errors returned by the Dispatcher lifecycle methods.
var (
	ErrAlreadyStarted = errors.New("dispatcher already started")
	ErrSendPanicked   = errors.New("reminder sender panicked")
)

// Dispatcher polls for due reminders and hands them to a worker pool.
type Dispatcher struct {
	reminders store.ReminderStore
	sender    Sender
	config    Config
	logger    *slog.Logger
	queue     chan *domain.Reminder

	// now is replaceable in tests
	now func() time.Time

	// reminders queued or being sent, keyed by ID
	mu       sync.Mutex
	inFlight map[int64]struct{}

	errHandler func(r *domain.Reminder, err error)

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Non-positive config values fall back
// to DefaultConfig. If logger is nil, slog.Default is used.
func NewDispatcher(reminders store.ReminderStore, sender Sender, cfg Config, logger *slog.Logger) *Dispatcher {
	if reminders == nil {
		panic("reminders cannot be nil")
	}
	if sender == nil {
		panic("sender cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "reminder_dispatcher"))

	effective := cfg.withDefaults()
	if effective != cfg {
		logger.Warn("invalid dispatcher config values replaced with defaults",
			slog.Duration("poll_interval", effective.PollInterval),
			slog.Int("worker_count", effective.WorkerCount),
			slog.Int("queue_size", effective.QueueSize))
	}

	d := &Dispatcher{
		reminders: reminders,
		sender:    sender,
		config:    effective,
		logger:    logger,
		queue:     make(chan *domain.Reminder, effective.QueueSize),
		now:       time.Now,
		inFlight:  make(map[int64]struct{}),
	}
	d.errHandler = func(r *domain.Reminder, err error) {
		// Default error handler just logs the error
		d.logger.Error("reminder dispatch failed",
			slog.Int64("reminder_id", r.ID),
			slog.Int64("task_id", r.TaskID),
			slog.String("error", redact.Error(err)))
	}
	return d
}

// SetErrorHandler replaces the handler called when sending or marking a
// reminder fails. It must be called before Start.
func (d *Dispatcher) SetErrorHandler(handler func(r *domain.Reminder, err error)) {
	if handler != nil {
		d.errHandler = handler
	}
}

// Config returns the effective configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// InFlight returns the number of reminders queued or being sent.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inFlight)
}

// PollOnce lists the reminders due now and queues each one that is not
// already in flight. It returns how many were queued. When the queue is
// full the remaining reminders are left for the next poll.
func (d *Dispatcher) PollOnce(ctx context.Context) (int, error) {
	log := d.logger.With(slog.String("poll_id", uuid.NewString()))

	due, err := d.reminders.ListDueUnsent(ctx, d.now())
	if err != nil {
		log.Error("failed to list due reminders", slog.String("error", redact.Error(err)))
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	enqueued, skipped := 0, 0
	for _, r := range due {
		if !d.acquire(r.ID) {
			skipped++
			continue
		}

		select {
		case d.queue <- r:
			enqueued++
		default:
			d.release(r.ID)
			log.Warn("reminder queue is full, deferring to next poll",
				slog.Int("deferred", len(due)-enqueued-skipped),
				slog.Int("queue_cap", cap(d.queue)))
			return enqueued, nil
		}
	}

	if len(due) > 0 {
		log.Info("due reminders queued",
			slog.Int("due", len(due)),
			slog.Int("enqueued", enqueued),
			slog.Int("already_in_flight", skipped))
	}
	return enqueued, nil
}

// Start launches the workers and the poller. The first poll runs
// immediately; later polls follow PollInterval. Cancelling ctx has the same
// effect as Stop without waiting.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if d.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(runCtx, i)
	}

	d.wg.Add(1)
	go d.poller(runCtx)

	d.logger.Info("reminder dispatcher started",
		slog.Duration("poll_interval", d.config.PollInterval),
		slog.Int("worker_count", d.config.WorkerCount),
		slog.Int("queue_size", d.config.QueueSize))
	return nil
}

// Stop cancels the poller and the workers and waits for them to exit.
// Reminders still queued stay unsent and are picked up on the next run.
func (d *Dispatcher) Stop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if d.cancel == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
	d.cancel = nil

	// drain so a later Start does not send stale entries twice
	for {
		select {
		case r := <-d.queue:
			d.release(r.ID)
		default:
			d.logger.Info("reminder dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) poller(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := d.PollOnce(ctx); err != nil && ctx.Err() == nil {
			d.logger.Warn("poll failed, retrying next interval",
				slog.Bool("storage_unavailable", store.IsStorageUnavailable(err)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return
		case r := <-d.queue:
			d.process(ctx, r, id)
		}
	}
}

// process sends one reminder and marks it sent.
//
// The reminder is re-read before sending: a poll that listed it before the
// previous worker marked it sent can queue it again once it leaves the
// in-flight set.
func (d *Dispatcher) process(ctx context.Context, r *domain.Reminder, workerID int) {
	defer d.release(r.ID)

	log := d.logger.With(
		slog.Int64("reminder_id", r.ID),
		slog.Int64("task_id", r.TaskID),
		slog.Int("worker_id", workerID),
	)

	current, err := d.reminders.GetByID(ctx, r.ID)
	switch {
	case errors.Is(err, store.ErrReminderNotFound):
		log.Debug("reminder deleted before dispatch, skipping")
		return
	case err != nil:
		d.errHandler(r, fmt.Errorf("failed to reload reminder: %w", err))
		return
	case current.Sent:
		log.Debug("reminder already sent, skipping")
		return
	}

	if err := d.send(ctx, r); err != nil {
		d.errHandler(r, err)
		return
	}

	if err := d.reminders.MarkSent(ctx, r.ID); err != nil {
		// the reminder went out but stays unsent, so it will be sent again
		d.errHandler(r, fmt.Errorf("reminder sent but not marked: %w", err))
		return
	}

	r.MarkSent()
	log.Info("reminder dispatched")
}

func (d *Dispatcher) send(ctx context.Context, r *domain.Reminder) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrSendPanicked, p)
		}
	}()
	return d.sender.Send(ctx, r)
}

func (d *Dispatcher) acquire(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.inFlight[id]; ok {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *Dispatcher) release(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, id)
}
