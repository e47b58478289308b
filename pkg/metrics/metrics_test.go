package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLatencyHandlerRecordsStatus(t *testing.T) {
	h := LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))

	before := testutil.CollectAndCount(requestLatency)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("got code %d, wanted %d", w.Code, http.StatusTeapot)
	}
	if after := testutil.CollectAndCount(requestLatency); after != before+1 {
		t.Errorf("got %d series, wanted %d", after, before+1)
	}
}

func TestStatusRecorderDefault(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if got := rec.status(); got != "200" {
		t.Errorf("got %q, wanted %q", got, "200")
	}
	rec.Write([]byte("hi"))
	rec.WriteHeader(http.StatusNotFound)
	if got := rec.status(); got != "200" {
		t.Errorf("got %q after write, wanted %q", got, "200")
	}
}

func TestObserveRender(t *testing.T) {
	ObserveRender("ok", time.Millisecond)
	ObserveRender("ok", 2*time.Millisecond)
	ObserveRender("invalid_input", time.Millisecond)

	if got := testutil.ToFloat64(renderOutcomes.With(prometheus.Labels{"outcome": "ok"})); got != 2 {
		t.Errorf("got %v ok renders, wanted 2", got)
	}
	if got := testutil.ToFloat64(renderOutcomes.With(prometheus.Labels{"outcome": "invalid_input"})); got != 1 {
		t.Errorf("got %v failed renders, wanted 1", got)
	}
}

func TestObserveUserRequest(t *testing.T) {
	ObserveUserRequest(true)
	if got := testutil.ToFloat64(userRequests.With(prometheus.Labels{"known": "true"})); got != 1 {
		t.Errorf("got %v, wanted 1", got)
	}
}
