package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
)

type recordingLog struct {
	categories []string
}

func (r *recordingLog) LogError(category, message string) {
	r.categories = append(r.categories, category)
}

func TestRunMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RunStarted()
	if got := promtest.ToFloat64(m.Busy); got != 1 {
		t.Errorf("Busy = %v, want 1", got)
	}

	m.StageFinished("recognize", 300*time.Millisecond)
	m.RunFinished("success", 4*time.Second)
	m.RunFinished("stt_failed", time.Second)
	m.RunFinished("success", 3*time.Second)

	if got := promtest.ToFloat64(m.Busy); got != 0 {
		t.Errorf("Busy = %v, want 0", got)
	}
	if got := promtest.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("runs_total{success} = %v, want 2", got)
	}
	if got := promtest.CollectAndCount(m.StageDuration); got != 1 {
		t.Errorf("stage_duration series = %d, want 1", got)
	}
}

func TestEventDroppedAndBreaker(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EventDropped("go")
	m.EventDropped("go")
	if got := promtest.ToFloat64(m.EventsDropped.WithLabelValues("go")); got != 2 {
		t.Errorf("events_dropped_total{go} = %v, want 2", got)
	}

	m.BreakerChanged("tts", gobreaker.StateClosed, gobreaker.StateOpen)
	if got := promtest.ToFloat64(m.BreakerState.WithLabelValues("tts")); got != float64(gobreaker.StateOpen) {
		t.Errorf("breaker_state{tts} = %v, want %v", got, float64(gobreaker.StateOpen))
	}
}

func TestCountErrors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	next := &recordingLog{}
	log := m.CountErrors(next)

	log.LogError("cleanup", "remove failed")
	log.LogError("input", "unknown key")
	log.LogError("cleanup", "remove failed again")

	if got := promtest.ToFloat64(m.Errors.WithLabelValues("cleanup")); got != 2 {
		t.Errorf("errors_total{cleanup} = %v, want 2", got)
	}
	if len(next.categories) != 3 {
		t.Errorf("Wrapped log received %d entries, want 3", len(next.categories))
	}

	// A nil journal is allowed
	m.CountErrors(nil).LogError("startup", "no journal")
}

func TestServerEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RunFinished("success", time.Second)

	srv := NewServer("127.0.0.1:0", reg, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "ok"},
		{"/metrics", `babelbox_runs_total{outcome="success"} 1`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

		body, _ := io.ReadAll(rec.Body)
		if rec.Code != 200 {
			t.Errorf("GET %s status = %d", tt.path, rec.Code)
		}
		if !strings.Contains(string(body), tt.want) {
			t.Errorf("GET %s body does not contain %q", tt.path, tt.want)
		}
	}
}
