package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

// localBus delivers events to in-process forwarders only. It is used when no
// Redis address is configured.
type localBus struct {
	log  *logger.Logger
	mu   sync.RWMutex
	subs map[int]func(JobEvent)
	next int
}

func NewLocalBus(log *logger.Logger) Bus {
	return &localBus{
		log:  log.With("service", "LocalJobBus"),
		subs: map[int]func(JobEvent){},
	}
}

func (b *localBus) Publish(ctx context.Context, ev JobEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Debug("job event", "job_id", ev.JobID, "kind", string(ev.Kind), "status", ev.Status)
	b.mu.RLock()
	subs := make([]func(JobEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onEvent func(ev JobEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = onEvent
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.subs = map[int]func(JobEvent){}
	b.mu.Unlock()
	return nil
}
