package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestDetachKeepsTraceDropsDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	parent = WithTraceData(parent, &TraceData{TraceID: "t-1", RequestID: "r-1"})

	detached := Detach(parent)
	<-parent.Done()

	if err := detached.Err(); err != nil {
		t.Fatalf("detached context should not be cancelled: %v", err)
	}
	td := GetTraceData(detached)
	if td == nil || td.TraceID != "t-1" || td.RequestID != "r-1" {
		t.Fatalf("trace data not carried: %+v", td)
	}
}

func TestGetTraceDataNil(t *testing.T) {
	if GetTraceData(nil) != nil { //nolint:staticcheck
		t.Fatalf("expected nil")
	}
	if Default(nil) == nil { //nolint:staticcheck
		t.Fatalf("expected background context")
	}
}
