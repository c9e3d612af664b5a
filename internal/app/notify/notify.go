package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Message is the outbound notification payload.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message. Implementations own their transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher decouples notification delivery from the request lifecycle.
// Handlers enqueue and move on; delivery failures are logged and dropped,
// never surfaced to a response.
type Dispatcher struct {
	sender  Sender
	log     *zap.Logger
	queue   chan Message
	wg      sync.WaitGroup
	timeout time.Duration

	closeOnce sync.Once
}

func NewDispatcher(sender Sender, log *zap.Logger, workers, buffer int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{
		sender:  sender,
		log:     log,
		queue:   make(chan Message, buffer),
		timeout: 30 * time.Second,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("notification dropped",
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Enqueue never blocks; when the buffer is full the message is dropped.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.String("subject", msg.Subject),
		)
	}
}

// Close drains the queue and stops the workers.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
