package ctxutil

import "context"

type traceDataKey struct{}

// TraceData correlates one HTTP request across logs, spans and responses.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	if td == nil {
		return ctx
	}
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

// LogFields returns the request identity found on ctx as key/value pairs
// for the structured logger: trace_id, request_id and session_id when set.
func LogFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var out []any
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if ad := GetAdminData(ctx); ad != nil && ad.SessionID != "" {
		out = append(out, "session_id", ad.SessionID)
	}
	return out
}
