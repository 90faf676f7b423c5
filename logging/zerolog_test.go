package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestZerolog(t *testing.T) {
	cases := map[string]struct {
		Classification Classification
		ExpectLevel    string
	}{
		"warn":    {Classification: Warn, ExpectLevel: "warn"},
		"debug":   {Classification: Debug, ExpectLevel: "debug"},
		"unknown": {Classification: "", ExpectLevel: "info"},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			NewZerolog(&buf).Logf(c.Classification, "attempt %d", 2)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("expect JSON entry, got %v, %q", err, buf.String())
			}
			if e, a := c.ExpectLevel, entry["level"]; e != a {
				t.Errorf("expect level %v, got %v", e, a)
			}
			if e, a := "attempt 2", entry["message"]; e != a {
				t.Errorf("expect message %v, got %v", e, a)
			}
		})
	}
}

func TestZerologWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1},
		SpanID:  trace.SpanID{2},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithContext(ctx, logger).Logf(Warn, "hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expect JSON entry, got %v", err)
	}
	if e, a := sc.TraceID().String(), entry["trace_id"]; e != a {
		t.Errorf("expect trace id %v, got %v", e, a)
	}
}
