package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	TenantID uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher writes audit events off the request path. When the queue is
// full the event is dropped; auditing never fails a request.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("tenant_id", ev.TenantID),
				zap.Error(err),
			)
		}
	}
}

// Dispatch is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
