package logging

import (
	"testing"

	"go.uber.org/zap"
)

const validTraceparent = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"

func fieldsByKey(fields []zap.Field) map[string]zap.Field {
	out := make(map[string]zap.Field, len(fields))
	for _, f := range fields {
		out[f.Key] = f
	}
	return out
}

func TestRequestFieldsWithTrace(t *testing.T) {
	fields := fieldsByKey(requestFields(validTraceparent, "demo-project", "req-1"))

	if got := fields["logging.googleapis.com/trace"].String; got != "projects/demo-project/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected trace resource: %s", got)
	}
	if got := fields["logging.googleapis.com/spanId"].String; got != "08f067aa0ba902b7" {
		t.Fatalf("unexpected span ID: %s", got)
	}
	if got := fields["logging.googleapis.com/trace_sampled"].Integer; got != 1 {
		t.Fatalf("expected sampled flag, got %d", got)
	}
	if got := fields["requestId"].String; got != "req-1" {
		t.Fatalf("unexpected request ID: %s", got)
	}
}

func TestRequestFieldsSkipsTraceWithoutProject(t *testing.T) {
	fields := requestFields(validTraceparent, "", "req-2")
	if len(fields) != 1 || fields[0].Key != "requestId" {
		t.Fatalf("expected only requestId field, got %+v", fields)
	}
}

func TestRequestFieldsRejectsMalformedHeader(t *testing.T) {
	tests := []string{
		"",
		"not-a-trace",
		"00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7",
		"00-3d23d071b5bfd6579171efce907685cz-08f067aa0ba902b7-01",
	}
	for _, header := range tests {
		if fields := requestFields(header, "demo-project", ""); len(fields) != 0 {
			t.Fatalf("expected no fields for %q, got %+v", header, fields)
		}
	}
}

func TestRequestFieldsUnsampled(t *testing.T) {
	fields := fieldsByKey(requestFields("00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-00", "p", ""))
	if got := fields["logging.googleapis.com/trace_sampled"].Integer; got != 0 {
		t.Fatalf("expected unsampled flag, got %d", got)
	}
}
