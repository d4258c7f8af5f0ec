package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/ctxutil"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
	"github.com/nala-edu/ai-grader/internal/realtime/bus"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, b bus.Bus) (*Manager, *clock) {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(log, b, Options{Now: clk.Now}), clk
}

func TestCreateStartsProcessing(t *testing.T) {
	m, clk := newTestManager(t, nil)
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-1"})

	id := m.Create(ctx, "grade_submission", grading.Submission{UserID: "u1"})
	require.NotEmpty(t, id)

	job, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, grading.JobProcessing, job.Status)
	assert.Equal(t, "u1", job.Payload.UserID)
	assert.Equal(t, "req-1", job.RequestID)
	assert.Equal(t, clk.Now(), job.CreatedAt)
	assert.Nil(t, job.Result)
	assert.Empty(t, job.Error)
}

func TestCreateAllocatesUniqueIDs(t *testing.T) {
	m, _ := newTestManager(t, nil)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := m.Create(context.Background(), "grade_submission", grading.Submission{})
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGetUnknown(t *testing.T) {
	m, _ := newTestManager(t, nil)
	_, ok := m.Get("missing")
	assert.False(t, ok)
}

func TestCompleteThenFailKeepsFirst(t *testing.T) {
	m, _ := newTestManager(t, nil)
	id := m.Create(context.Background(), "grade_submission", grading.Submission{})

	require.True(t, m.Complete(id, grading.JobResult{Score: 7, MaxScore: 10, Feedback: "ok", TraceID: "t1"}))
	assert.False(t, m.Fail(id, errors.New("late failure")))
	assert.False(t, m.Complete(id, grading.JobResult{Score: 1}))

	job, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, grading.JobCompleted, job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, 7.0, job.Result.Score)
	assert.Equal(t, "t1", job.Result.TraceID)
	assert.Empty(t, job.Error)
	assert.NotNil(t, job.CompletedAt)
	assert.Nil(t, job.FailedAt)
}

func TestFailThenCompleteKeepsFirst(t *testing.T) {
	m, _ := newTestManager(t, nil)
	id := m.Create(context.Background(), "grade_submission", grading.Submission{})

	require.True(t, m.Fail(id, errors.New("db down")))
	assert.False(t, m.Complete(id, grading.JobResult{Score: 10}))
	assert.False(t, m.Fail(id, errors.New("second")))

	job, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, grading.JobFailed, job.Status)
	assert.Equal(t, "db down", job.Error)
	assert.Nil(t, job.Result)
	assert.NotNil(t, job.FailedAt)
}

func TestSnapshotIsolation(t *testing.T) {
	m, _ := newTestManager(t, nil)
	id := m.Create(context.Background(), "grade_submission", grading.Submission{})
	m.Complete(id, grading.JobResult{Score: 5})

	job, _ := m.Get(id)
	job.Result.Score = 99

	again, _ := m.Get(id)
	assert.Equal(t, 5.0, again.Result.Score)
}

func TestConcurrentTerminalTransitionsHaveOneWinner(t *testing.T) {
	m, _ := newTestManager(t, nil)
	for round := 0; round < 50; round++ {
		id := m.Create(context.Background(), "grade_submission", grading.Submission{})

		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				if m.Complete(id, grading.JobResult{Score: 10}) {
					atomic.AddInt32(&wins, 1)
				}
			}()
			go func() {
				defer wg.Done()
				if m.Fail(id, errors.New("boom")) {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), wins)

		job, _ := m.Get(id)
		require.True(t, job.Status.Terminal())
		if job.Status == grading.JobCompleted {
			require.Empty(t, job.Error)
		} else {
			require.Nil(t, job.Result)
		}
	}
}

func TestReapEvictsOldJobsRegardlessOfStatus(t *testing.T) {
	m, clk := newTestManager(t, nil)
	stuck := m.Create(context.Background(), "grade_submission", grading.Submission{})
	done := m.Create(context.Background(), "grade_submission", grading.Submission{})
	m.Complete(done, grading.JobResult{Score: 3})

	clk.Advance(30 * time.Minute)
	fresh := m.Create(context.Background(), "grade_submission", grading.Submission{})

	assert.Equal(t, 0, m.Reap(clk.Now()))

	// 13:01: the 12:00 jobs are past retention, the 12:30 one is not.
	clk.Advance(31 * time.Minute)
	assert.Equal(t, 2, m.Reap(clk.Now()))

	_, ok := m.Get(stuck)
	assert.False(t, ok)
	_, ok = m.Get(done)
	assert.False(t, ok)
	_, ok = m.Get(fresh)
	assert.True(t, ok)

	assert.False(t, m.Complete(stuck, grading.JobResult{Score: 10}))
	assert.False(t, m.Fail(stuck, errors.New("late")))

	clk.Advance(DefaultRetention + DefaultReapInterval)
	assert.Equal(t, 1, m.Reap(clk.Now()))
	_, ok = m.Get(fresh)
	assert.False(t, ok)
}

func TestStatsCountsEveryStatus(t *testing.T) {
	m, _ := newTestManager(t, nil)
	a := m.Create(context.Background(), "grade_submission", grading.Submission{})
	b := m.Create(context.Background(), "grade_submission", grading.Submission{})
	m.Create(context.Background(), "grade_submission", grading.Submission{})
	m.Complete(a, grading.JobResult{})
	m.Fail(b, errors.New("x"))

	stats := m.Stats()
	assert.Equal(t, 1, stats[grading.JobProcessing])
	assert.Equal(t, 1, stats[grading.JobCompleted])
	assert.Equal(t, 1, stats[grading.JobFailed])
}

func TestTransitionsArePublished(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	b := bus.NewLocalBus(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan bus.JobEvent, 8)
	require.NoError(t, b.StartForwarder(ctx, func(ev bus.JobEvent) { events <- ev }))

	m, _ := newTestManager(t, b)
	id := m.Create(context.Background(), "grade_submission", grading.Submission{})
	m.Complete(id, grading.JobResult{Score: 9, TraceID: "tr"})

	kinds := map[bus.EventKind]bus.JobEvent{}
	for len(kinds) < 2 {
		select {
		case ev := <-events:
			kinds[ev.Kind] = ev
		case <-time.After(2 * time.Second):
			t.Fatalf("events not published: %v", kinds)
		}
	}
	done := kinds[bus.KindCompleted]
	assert.Equal(t, id, done.JobID)
	require.NotNil(t, done.Score)
	assert.Equal(t, 9.0, *done.Score)
	assert.Equal(t, "tr", done.TraceID)
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
