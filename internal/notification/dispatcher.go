package notification

import (
	"context"
	"log"
	"sync"
	"time"
)

// Pusher is the narrow interface domain services use to emit pushes.
// Dispatch is best-effort and fire-and-forget: enqueue never blocks the
// request path and delivery failures never surface to the caller.
type Pusher interface {
	PushToUsers(userIDs []string, msg Message)
	PushToTopic(topic string, msg Message)
}

type task struct {
	userIDs []string
	topic   string
	msg     Message
}

// Dispatcher drains queued pushes on a single worker goroutine.
type Dispatcher struct {
	notifier    Notifier
	tokens      TokenRepository
	queue       chan task
	sendTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given queue capacity.
func NewDispatcher(notifier Notifier, tokens TokenRepository, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 256
	}
	return &Dispatcher{
		notifier:    notifier,
		tokens:      tokens,
		queue:       make(chan task, queueSize),
		sendTimeout: 10 * time.Second,
		done:        make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for t := range d.queue {
			d.deliver(t)
		}
	}()
}

// Close stops accepting new pushes and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		close(d.queue)
	})
	d.wg.Wait()
}

// PushToUsers queues a push to every device of the given users.
func (d *Dispatcher) PushToUsers(userIDs []string, msg Message) {
	if len(userIDs) == 0 {
		return
	}
	d.enqueue(task{userIDs: userIDs, msg: msg})
}

// PushToTopic queues a broadcast push to a topic.
func (d *Dispatcher) PushToTopic(topic string, msg Message) {
	d.enqueue(task{topic: topic, msg: msg})
}

func (d *Dispatcher) enqueue(t task) {
	select {
	case <-d.done:
		log.Printf("push dropped, dispatcher closed: %s", t.msg.Title)
		return
	default:
	}

	select {
	case d.queue <- t:
	default:
		// Queue full: drop rather than block request handling.
		log.Printf("push dropped, queue full: %s", t.msg.Title)
	}
}

func (d *Dispatcher) deliver(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if t.topic != "" {
		if err := d.notifier.SendToTopic(ctx, t.topic, t.msg); err != nil {
			log.Printf("push to topic %s failed: %v", t.topic, err)
		}
		return
	}

	tokens, err := d.tokens.TokensByUserIDs(ctx, t.userIDs)
	if err != nil {
		log.Printf("push skipped, token lookup failed: %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	if err := d.notifier.SendToTokens(ctx, tokens, t.msg); err != nil {
		log.Printf("push to %d token(s) failed: %v", len(tokens), err)
	}
}
