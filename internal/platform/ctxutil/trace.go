package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies one inbound request. TraceID follows the active span
// when tracing is on; RequestID is echoed back to the caller.
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

// LogFields returns the trace, request and user ids on ctx as logger
// key/value pairs, skipping empty ones.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			kv = append(kv, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			kv = append(kv, "request_id", td.RequestID)
		}
	}
	if uid := UserID(ctx); uid != "" {
		kv = append(kv, "user_id", uid)
	}
	return kv
}
