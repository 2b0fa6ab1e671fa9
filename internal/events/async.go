// internal/events/async.go
package events

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/metrics"
)

// Async hands events to a worker goroutine through a buffered channel.
// Publish never blocks the request; a full buffer drops the event.
type Async struct {
	handler Handler
	queue   chan Event
	wg      sync.WaitGroup
}

func NewAsync(h Handler, buffer int) *Async {
	if buffer <= 0 {
		buffer = 256
	}
	return &Async{handler: h, queue: make(chan Event, buffer)}
}

// Start runs the worker until ctx is cancelled, then drains what is queued.
func (a *Async) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case e := <-a.queue:
				handle(context.Background(), a.handler, e)
			case <-ctx.Done():
				for {
					select {
					case e := <-a.queue:
						handle(context.Background(), a.handler, e)
					default:
						return
					}
				}
			}
		}
	}()
}

func (a *Async) Publish(_ context.Context, e Event) error {
	select {
	case a.queue <- e:
		metrics.EventsPublished.WithLabelValues(e.Type, "async").Inc()
	default:
		metrics.EventsDropped.WithLabelValues(e.Type, "buffer_full").Inc()
		logrus.WithField("event_type", e.Type).Warn("Event buffer full, dropping event")
	}
	return nil
}

// Wait blocks until the worker has exited.
func (a *Async) Wait() {
	a.wg.Wait()
}
