package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

type recordingTracker struct {
	completed []grading.JobResult
	failed    []error
}

func (r *recordingTracker) Complete(_ string, res grading.JobResult) bool {
	r.completed = append(r.completed, res)
	return true
}

func (r *recordingTracker) Fail(_ string, err error) bool {
	r.failed = append(r.failed, err)
	return true
}

type stubHandler struct{ typ string }

func (h stubHandler) Type() string         { return h.typ }
func (h stubHandler) Run(_ *Context) error { return nil }

func TestContextFirstTerminalCallWins(t *testing.T) {
	tr := &recordingTracker{}
	jc := NewContext(context.Background(), grading.Job{ID: "j1"}, tr)

	jc.Fail("persist", errors.New("db down"))
	jc.Succeed(grading.JobResult{Score: 10})
	jc.Fail("again", errors.New("x"))

	if len(tr.failed) != 1 || len(tr.completed) != 0 {
		t.Fatalf("expected one failure only, got completed=%d failed=%d", len(tr.completed), len(tr.failed))
	}
	if !jc.Ended() || jc.Stage() != "persist" {
		t.Fatalf("unexpected state ended=%v stage=%q", jc.Ended(), jc.Stage())
	}
}

func TestContextNilSafe(t *testing.T) {
	var jc *Context
	jc.Succeed(grading.JobResult{})
	jc.Fail("x", errors.New("y"))
}

func TestContextDefaultsNilCtx(t *testing.T) {
	var ctx context.Context
	jc := NewContext(ctx, grading.Job{ID: "j"}, nil)
	if jc.Ctx == nil {
		t.Fatalf("expected background context")
	}
	jc.Succeed(grading.JobResult{})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubHandler{typ: "grade_submission"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(stubHandler{typ: "grade_submission"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := r.Register(stubHandler{}); err == nil {
		t.Fatalf("expected empty type error")
	}
	if err := r.Register(nil); err == nil {
		t.Fatalf("expected nil handler error")
	}
	if _, ok := r.Get("grade_submission"); !ok {
		t.Fatalf("handler not found")
	}
	if _, ok := r.Get("other"); ok {
		t.Fatalf("unexpected handler")
	}
	if got := r.Types(); len(got) != 1 || got[0] != "grade_submission" {
		t.Fatalf("unexpected types: %v", got)
	}
}
