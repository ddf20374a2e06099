package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordedSpan struct {
	noop.Span
	mu     sync.Mutex
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *recordedSpan) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	spans []*recordedSpan
}

func (tr *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordedSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	span.SetAttributes(cfg.Attributes()...)
	tr.mu.Lock()
	tr.spans = append(tr.spans, span)
	tr.mu.Unlock()
	return trace.ContextWithSpan(ctx, span), span
}

// find returns the first span with the given name.
func (tr *recordingTracer) find(name string) *recordedSpan {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for _, s := range tr.spans {
		s.mu.Lock()
		n := s.name
		s.mu.Unlock()
		if n == name {
			return s
		}
	}
	return nil
}

func TestHTTPMetrics_LabelsByPattern(t *testing.T) {
	_, ts := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/healthz", "/nowhere"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`flxrouter_http_requests_total{code="200",method="GET",pattern="/healthz"} 2`,
		`flxrouter_http_requests_total{code="404",method="GET",pattern="/*"} 1`,
		`flxrouter_http_request_duration_seconds_count{method="GET",pattern="/healthz"} 2`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

func TestTracing_RequestSpans(t *testing.T) {
	tracer := &recordingTracer{}
	_, ts := newTestServer(t, nil, WithTracer(tracer))

	resp, err := http.Get(ts.URL + "/a")
	if err != nil {
		t.Fatal(err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	span := tracer.find("GET /*")
	if span == nil {
		t.Fatalf("no span named %q", "GET /*")
	}
	span.mu.Lock()
	ended, status, attrs := span.ended, span.status, span.attrs
	span.mu.Unlock()

	if !ended {
		t.Error("span not ended")
	}
	if status != codes.Ok {
		t.Errorf("status = %v, want Ok", status)
	}
	if got := attrs["http.target"].AsString(); got != "/a" {
		t.Errorf("http.target = %q, want %q", got, "/a")
	}
	if got := attrs["http.status_code"].AsInt64(); got != http.StatusOK {
		t.Errorf("http.status_code = %d, want 200", got)
	}
	if got := attrs["http.request_id"].AsString(); got == "" {
		t.Error("http.request_id is empty")
	}

	// Page rendering runs a navigation under the request span.
	if tracer.find("flxrouter.navigate") == nil {
		t.Error("no navigation span recorded")
	}
}
