package logging

import (
	"regexp"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

// requestFields builds the per-request logger fields: Cloud Trace correlation
// when a project is configured and the traceparent is well formed, plus the
// request ID.
func requestFields(traceparent, project, requestID string) []zap.Field {
	var fields []zap.Field
	if project != "" {
		if m := traceparentRe.FindStringSubmatch(traceparent); m != nil {
			fields = append(fields,
				zap.String("logging.googleapis.com/trace", "projects/"+project+"/traces/"+m[2]),
				zap.String("logging.googleapis.com/spanId", m[3]),
				zap.Bool("logging.googleapis.com/trace_sampled", m[4] == "01"),
			)
		}
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	return fields
}
