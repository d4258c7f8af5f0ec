package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/jobs/runtime"
	"github.com/nala-edu/ai-grader/internal/platform/ctxutil"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

var errNoOutcome = errors.New("job handler returned without an outcome")

// Dispatcher runs each submitted job on its own goroutine. Submit never waits
// for the handler; the outcome reaches callers only through the Tracker.
type Dispatcher struct {
	log      *logger.Logger
	registry *runtime.Registry
	tracker  runtime.Tracker
	wg       sync.WaitGroup
}

func NewDispatcher(baseLog *logger.Logger, registry *runtime.Registry, tracker runtime.Tracker) *Dispatcher {
	return &Dispatcher{
		log:      baseLog.With("component", "JobDispatcher"),
		registry: registry,
		tracker:  tracker,
	}
}

// Submit starts job in the background. ctx only contributes trace data; its
// cancellation does not reach the job.
func (d *Dispatcher) Submit(ctx context.Context, job grading.Job) {
	runCtx := ctxutil.Detach(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(runCtx, job)
	}()
}

// Wait blocks until every submitted job has returned or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, job grading.Job) {
	jc := runtime.NewContext(ctx, job, d.tracker)
	h, ok := d.registry.Get(job.Type)
	if !ok {
		d.log.Warn("No handler registered for job_type", "job_type", job.Type, "job_id", job.ID)
		jc.Fail("dispatch", &missingHandlerError{JobType: job.Type})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Job handler panic",
				"job_id", job.ID,
				"job_type", job.Type,
				"panic", r,
			)
			jc.Fail("panic", errFromRecover(r))
		}
	}()

	if runErr := h.Run(jc); runErr != nil {
		// Handlers normally end the run themselves; this is the safety net.
		jc.Fail("run", runErr)
		return
	}
	if !jc.Ended() {
		d.log.Warn("Job handler returned without outcome", "job_id", job.ID, "job_type", job.Type)
		jc.Fail("run", errNoOutcome)
	}
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string {
	return "no handler registered for job_type=" + e.JobType
}

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return "panic: unexpected error" }
