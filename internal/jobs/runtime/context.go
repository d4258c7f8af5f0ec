package runtime

import (
	"context"
	"sync"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

// Tracker receives the single terminal transition of a job.
type Tracker interface {
	Complete(id string, result grading.JobResult) bool
	Fail(id string, err error) bool
}

/*
Context is the execution handle for one job run. Handlers never touch the
job store directly; Succeed and Fail are the only ways to end a run.
  - Ctx: detached from the submitting request, carries its trace data
  - Job: snapshot taken at dispatch

The first terminal call wins; later calls are ignored.
*/
type Context struct {
	Ctx     context.Context
	Job     grading.Job
	Tracker Tracker

	mu    sync.Mutex
	ended bool
	stage string
}

func NewContext(ctx context.Context, job grading.Job, tracker Tracker) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{Ctx: ctx, Job: job, Tracker: tracker}
}

// Payload is the canonical submission the job was created with.
func (c *Context) Payload() grading.Submission {
	return c.Job.Payload
}

func (c *Context) Succeed(result grading.JobResult) {
	if c == nil || !c.end("done") {
		return
	}
	if c.Tracker != nil {
		c.Tracker.Complete(c.Job.ID, result)
	}
}

// Fail ends the run as failed. stage names where the error escaped.
func (c *Context) Fail(stage string, err error) {
	if c == nil || !c.end(stage) {
		return
	}
	if c.Tracker != nil {
		c.Tracker.Fail(c.Job.ID, err)
	}
}

// Ended reports whether Succeed or Fail has been called.
func (c *Context) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Stage is the stage recorded by the terminal call, or "".
func (c *Context) Stage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *Context) end(stage string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ended {
		return false
	}
	c.ended = true
	c.stage = stage
	return true
}
