package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestLocalBusDeliversToForwarders(t *testing.T) {
	b := NewLocalBus(testLogger(t))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan JobEvent, 1)
	if err := b.StartForwarder(ctx, func(ev JobEvent) { got <- ev }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(ctx, JobEvent{JobID: "j1", Kind: KindCompleted, Status: "completed"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case ev := <-got:
		if ev.JobID != "j1" || ev.Kind != KindCompleted {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestLocalBusRejectsNilCallback(t *testing.T) {
	b := NewLocalBus(testLogger(t))
	if err := b.StartForwarder(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}

func TestLocalBusPublishHonorsCanceledContext(t *testing.T) {
	b := NewLocalBus(testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Publish(ctx, JobEvent{JobID: "j1"}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	b, err := NewRedisBus(testLogger(t), RedisConfig{Addr: addr, Channel: "grading.jobs.test"})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan JobEvent, 1)
	if err := b.StartForwarder(ctx, func(ev JobEvent) { got <- ev }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	score := 7.0
	if err := b.Publish(ctx, JobEvent{JobID: "j2", Kind: KindCompleted, Status: "completed", Score: &score}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case ev := <-got:
		if ev.JobID != "j2" || ev.Score == nil || *ev.Score != 7 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-ctx.Done():
		t.Fatalf("event not delivered")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(testLogger(t), RedisConfig{}); err == nil {
		t.Fatalf("expected error without address")
	}
}
