package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/jobs/runtime"
	"github.com/nala-edu/ai-grader/internal/platform/ctxutil"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type outcome struct {
	result *grading.JobResult
	err    error
}

type chanTracker struct {
	mu  sync.Mutex
	out map[string]chan outcome
}

func newChanTracker() *chanTracker { return &chanTracker{out: map[string]chan outcome{}} }

func (c *chanTracker) ch(id string) chan outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.out[id]; !ok {
		c.out[id] = make(chan outcome, 4)
	}
	return c.out[id]
}

func (c *chanTracker) Complete(id string, res grading.JobResult) bool {
	c.ch(id) <- outcome{result: &res}
	return true
}

func (c *chanTracker) Fail(id string, err error) bool {
	c.ch(id) <- outcome{err: err}
	return true
}

func (c *chanTracker) wait(t *testing.T, id string) outcome {
	t.Helper()
	select {
	case o := <-c.ch(id):
		return o
	case <-time.After(2 * time.Second):
		t.Fatalf("no outcome for %s", id)
		return outcome{}
	}
}

type funcHandler struct {
	typ string
	run func(jc *runtime.Context) error
}

func (h funcHandler) Type() string                  { return h.typ }
func (h funcHandler) Run(jc *runtime.Context) error { return h.run(jc) }

func newDispatcher(t *testing.T, handlers ...runtime.Handler) (*Dispatcher, *chanTracker) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	reg := runtime.NewRegistry()
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	tr := newChanTracker()
	return NewDispatcher(log, reg, tr), tr
}

func TestSubmitRunsHandlerDetachedFromRequest(t *testing.T) {
	h := funcHandler{typ: "grade", run: func(jc *runtime.Context) error {
		if err := jc.Ctx.Err(); err != nil {
			return err
		}
		td := ctxutil.GetTraceData(jc.Ctx)
		if td == nil || td.RequestID != "req-7" {
			return errors.New("trace data not carried")
		}
		jc.Succeed(grading.JobResult{Score: 4})
		return nil
	}}
	d, tr := newDispatcher(t, h)

	reqCtx, cancel := context.WithCancel(ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-7"}))
	cancel()
	d.Submit(reqCtx, grading.Job{ID: "j1", Type: "grade"})

	o := tr.wait(t, "j1")
	if o.err != nil {
		t.Fatalf("unexpected failure: %v", o.err)
	}
	if o.result == nil || o.result.Score != 4 {
		t.Fatalf("unexpected result: %+v", o.result)
	}
}

func TestMissingHandlerFailsJob(t *testing.T) {
	d, tr := newDispatcher(t)
	d.Submit(context.Background(), grading.Job{ID: "j2", Type: "unknown"})

	o := tr.wait(t, "j2")
	var mh *missingHandlerError
	if !errors.As(o.err, &mh) || mh.JobType != "unknown" {
		t.Fatalf("expected missing handler error, got %v", o.err)
	}
}

func TestPanicFailsJob(t *testing.T) {
	h := funcHandler{typ: "grade", run: func(*runtime.Context) error { panic("boom") }}
	d, tr := newDispatcher(t, h)
	d.Submit(context.Background(), grading.Job{ID: "j3", Type: "grade"})

	o := tr.wait(t, "j3")
	var pe *panicError
	if !errors.As(o.err, &pe) || pe.Val != "boom" {
		t.Fatalf("expected panic error, got %v", o.err)
	}
}

func TestHandlerErrorFailsJob(t *testing.T) {
	h := funcHandler{typ: "grade", run: func(*runtime.Context) error { return errors.New("bad input") }}
	d, tr := newDispatcher(t, h)
	d.Submit(context.Background(), grading.Job{ID: "j4", Type: "grade"})

	if o := tr.wait(t, "j4"); o.err == nil || o.err.Error() != "bad input" {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestHandlerWithoutOutcomeFailsJob(t *testing.T) {
	h := funcHandler{typ: "grade", run: func(*runtime.Context) error { return nil }}
	d, tr := newDispatcher(t, h)
	d.Submit(context.Background(), grading.Job{ID: "j5", Type: "grade"})

	if o := tr.wait(t, "j5"); !errors.Is(o.err, errNoOutcome) {
		t.Fatalf("expected errNoOutcome, got %v", o.err)
	}
}

func TestWaitReturnsAfterJobs(t *testing.T) {
	release := make(chan struct{})
	h := funcHandler{typ: "grade", run: func(jc *runtime.Context) error {
		<-release
		jc.Succeed(grading.JobResult{})
		return nil
	}}
	d, _ := newDispatcher(t, h)
	d.Submit(context.Background(), grading.Job{ID: "j6", Type: "grade"})

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Wait(short); err == nil {
		t.Fatalf("expected Wait to time out while job is blocked")
	}

	close(release)
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
