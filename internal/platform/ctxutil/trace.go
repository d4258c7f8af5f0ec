package ctxutil

import "context"

type traceDataKey struct{}

// TraceData is the request correlation attached by the HTTP boundary and
// copied into background jobs so their logs join the originating request.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Detach returns a background context that keeps ctx's TraceData but none of
// its deadline or cancellation.
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if td := GetTraceData(ctx); td != nil {
		cp := *td
		out = WithTraceData(out, &cp)
	}
	return out
}
