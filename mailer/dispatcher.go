package mailer

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the dispatch queue is saturated.
// Callers treat this as a delivery failure to be reported out-of-band, not as
// a request failure.
var ErrQueueFull = errors.New("mailer: dispatch queue full")

// Message is a queued activation email.
type Message struct {
	To            string
	ActivationURL string
}

// Dispatcher drains a bounded queue of activation emails on a background
// goroutine, retrying transient delivery failures with a fixed backoff.
type Dispatcher struct {
	mailer  Mailer
	log     *zap.Logger
	queue   chan Message
	retries int
	backoff time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher over the given mailer. queueSize bounds
// the number of undelivered messages held in memory.
func NewDispatcher(m Mailer, log *zap.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		mailer:  m,
		log:     log,
		queue:   make(chan Message, queueSize),
		retries: 3,
		backoff: 30 * time.Second,
	}
}

// SetRetry overrides the delivery retry policy.
func (d *Dispatcher) SetRetry(attempts int, backoff time.Duration) {
	d.retries = attempts
	d.backoff = backoff
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Enqueue queues an activation email for delivery. It never blocks: when the
// queue is full the message is dropped, logged, and ErrQueueFull returned.
func (d *Dispatcher) Enqueue(to, activationURL string) error {
	select {
	case d.queue <- Message{To: to, ActivationURL: activationURL}:
		return nil
	default:
		d.log.Error("mail dispatch failed, queue full",
			zap.String("to", to),
		)
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	var err error
	for attempt := 1; attempt <= d.retries; attempt++ {
		if err = d.mailer.Send(msg.To, msg.ActivationURL); err == nil {
			d.log.Info("activation email sent",
				zap.String("to", msg.To),
				zap.Int("attempt", attempt),
			)
			return
		}
		d.log.Warn("activation email delivery failed",
			zap.String("to", msg.To),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < d.retries {
			time.Sleep(d.backoff)
		}
	}
	d.log.Error("mail dispatch failed, giving up",
		zap.String("to", msg.To),
		zap.Int("attempts", d.retries),
		zap.Error(err),
	)
}
