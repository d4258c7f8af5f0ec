// Package manager tracks grading jobs in memory from creation until the
// reaper evicts them.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/ctxutil"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
	"github.com/nala-edu/ai-grader/internal/realtime/bus"
)

const (
	DefaultRetention    = time.Hour
	DefaultReapInterval = time.Hour

	eventComplete = "complete"
	eventFail     = "fail"

	publishTimeout = 2 * time.Second
	gaugeInterval  = 30 * time.Second
)

type Options struct {
	Retention    time.Duration
	ReapInterval time.Duration
	// Now is the clock used for timestamps; tests pin it.
	Now func() time.Time
}

type Manager struct {
	log       *logger.Logger
	jobs      cmap.ConcurrentMap[string, *entry]
	bus       bus.Bus
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

// entry guards one job. The state machine decides legality; mu keeps the
// transition and the fields it sets atomic.
type entry struct {
	mu  sync.Mutex
	fsm *fsm.FSM
	job grading.Job
}

func New(baseLog *logger.Logger, b bus.Bus, opts Options) *Manager {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = DefaultReapInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		log:       baseLog.With("component", "JobManager"),
		jobs:      cmap.New[*entry](),
		bus:       b,
		retention: opts.Retention,
		interval:  opts.ReapInterval,
		now:       opts.Now,
	}
}

func newJobFSM() *fsm.FSM {
	return fsm.NewFSM(
		string(grading.JobProcessing),
		fsm.Events{
			{Name: eventComplete, Src: []string{string(grading.JobProcessing)}, Dst: string(grading.JobCompleted)},
			{Name: eventFail, Src: []string{string(grading.JobProcessing)}, Dst: string(grading.JobFailed)},
		},
		fsm.Callbacks{},
	)
}

// Create stores a new processing job and returns its id. It performs no I/O;
// the created event is published asynchronously.
func (m *Manager) Create(ctx context.Context, jobType string, payload grading.Submission) string {
	id := uuid.New().String()
	e := &entry{
		fsm: newJobFSM(),
		job: grading.Job{
			ID:        id,
			Type:      jobType,
			Status:    grading.JobProcessing,
			Payload:   payload,
			CreatedAt: m.now(),
		},
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		e.job.RequestID = td.RequestID
	}
	m.jobs.Set(id, e)

	observability.Current().IncJobCreated()
	m.log.Info("job created", "job_id", id, "job_type", jobType, "request_id", e.job.RequestID)
	m.publish(bus.JobEvent{JobID: id, JobType: jobType, Kind: bus.KindCreated, Status: string(grading.JobProcessing), At: e.job.CreatedAt})
	return id
}

// Get returns a snapshot of the job.
func (m *Manager) Get(id string) (grading.Job, bool) {
	e, ok := m.jobs.Get(id)
	if !ok {
		return grading.Job{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.job), true
}

// Complete moves a processing job to completed. Unknown or terminal jobs are
// left untouched and false is returned.
func (m *Manager) Complete(id string, result grading.JobResult) bool {
	e, ok := m.jobs.Get(id)
	if !ok {
		m.log.Debug("complete ignored for unknown job", "job_id", id)
		return false
	}
	e.mu.Lock()
	if err := e.fsm.Event(eventComplete); err != nil {
		e.mu.Unlock()
		m.log.Debug("complete ignored", "job_id", id, "status", e.fsm.Current())
		return false
	}
	now := m.now()
	res := result
	e.job.Status = grading.JobCompleted
	e.job.Result = &res
	e.job.CompletedAt = &now
	jobType := e.job.Type
	e.mu.Unlock()

	observability.Current().IncJobTerminal(string(grading.JobCompleted))
	m.log.Info("job completed", "job_id", id, "score", result.Score, "trace_id", result.TraceID)
	score := result.Score
	m.publish(bus.JobEvent{
		JobID: id, JobType: jobType, Kind: bus.KindCompleted, Status: string(grading.JobCompleted),
		Score: &score, TraceID: result.TraceID, At: now,
	})
	return true
}

// Fail moves a processing job to failed with err's message. Same idempotence
// rule as Complete.
func (m *Manager) Fail(id string, err error) bool {
	e, ok := m.jobs.Get(id)
	if !ok {
		m.log.Debug("fail ignored for unknown job", "job_id", id)
		return false
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	e.mu.Lock()
	if fErr := e.fsm.Event(eventFail); fErr != nil {
		e.mu.Unlock()
		m.log.Debug("fail ignored", "job_id", id, "status", e.fsm.Current())
		return false
	}
	now := m.now()
	e.job.Status = grading.JobFailed
	e.job.Error = msg
	e.job.FailedAt = &now
	jobType := e.job.Type
	e.mu.Unlock()

	observability.Current().IncJobTerminal(string(grading.JobFailed))
	m.log.Warn("job failed", "job_id", id, "error", msg)
	m.publish(bus.JobEvent{JobID: id, JobType: jobType, Kind: bus.KindFailed, Status: string(grading.JobFailed), Error: msg, At: now})
	return true
}

// Reap deletes every job created before now minus the retention window,
// whatever its status, and returns how many were removed.
func (m *Manager) Reap(now time.Time) int {
	cutoff := now.Add(-m.retention)
	var expired []string
	m.jobs.IterCb(func(id string, e *entry) {
		e.mu.Lock()
		if e.job.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
		e.mu.Unlock()
	})

	removed := 0
	for _, id := range expired {
		var status grading.JobStatus
		ok := m.jobs.RemoveCb(id, func(_ string, e *entry, exists bool) bool {
			if !exists {
				return false
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			status = e.job.Status
			return e.job.CreatedAt.Before(cutoff)
		})
		if !ok {
			continue
		}
		removed++
		m.publish(bus.JobEvent{JobID: id, Kind: bus.KindReaped, Status: string(status), At: now})
	}

	if removed > 0 {
		observability.Current().AddJobsReaped(removed)
		m.log.Info("reaped expired jobs", "count", removed, "remaining", m.jobs.Count())
	}
	m.refreshGauges()
	return removed
}

// Run reaps on the configured interval until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	m.log.Info("job reaper started", "retention", m.retention.String(), "interval", m.interval.String())
	reap := time.NewTicker(m.interval)
	defer reap.Stop()
	gauges := time.NewTicker(gaugeInterval)
	defer gauges.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("job reaper stopped")
			return nil
		case <-reap.C:
			m.Reap(m.now())
		case <-gauges.C:
			m.refreshGauges()
		}
	}
}

// Stats counts tracked jobs per status. Every status is present.
func (m *Manager) Stats() map[grading.JobStatus]int {
	out := map[grading.JobStatus]int{
		grading.JobProcessing: 0,
		grading.JobCompleted:  0,
		grading.JobFailed:     0,
	}
	m.jobs.IterCb(func(_ string, e *entry) {
		e.mu.Lock()
		out[e.job.Status]++
		e.mu.Unlock()
	})
	return out
}

func (m *Manager) refreshGauges() {
	stats := m.Stats()
	labels := make(map[string]int, len(stats))
	for k, v := range stats {
		labels[string(k)] = v
	}
	observability.Current().SetJobsByStatus(labels)
}

func (m *Manager) publish(ev bus.JobEvent) {
	if m.bus == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := m.bus.Publish(ctx, ev); err != nil {
			observability.Current().IncBusPublishError()
			m.log.Warn("job event publish failed", "job_id", ev.JobID, "kind", string(ev.Kind), "error", err)
		}
	}()
}

func snapshot(j grading.Job) grading.Job {
	out := j
	if j.Result != nil {
		r := *j.Result
		out.Result = &r
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	if j.FailedAt != nil {
		t := *j.FailedAt
		out.FailedAt = &t
	}
	return out
}
