package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/merliot/ranger"
)

func TestEncode(t *testing.T) {
	c := qt.New(t)
	c.Assert(string(encode(42)), qt.Equals, `{"distance_cm":42}`)
}

func TestHTTPReport(t *testing.T) {
	c := qt.New(t)

	type request struct {
		method, contentType, requestID string
		body                           Reading
	}
	got := make(chan request, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req = request{
			method:      r.Method,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
		}
		json.NewDecoder(r.Body).Decode(&req.body)
		got <- req
		io.WriteString(w, `{"detections":[]}`)
	}))
	defer ts.Close()

	err := NewHTTP(ts.URL+"/detect", time.Second).Report(context.Background(), 37)
	c.Assert(err, qt.IsNil)

	req := <-got
	c.Assert(req.method, qt.Equals, http.MethodPost)
	c.Assert(req.contentType, qt.Equals, "application/json")
	c.Assert(req.requestID, qt.Not(qt.Equals), "")
	c.Assert(req.body, qt.Equals, Reading{DistanceCm: 37})
}

func TestHTTPReportIgnoresStatus(t *testing.T) {
	c := qt.New(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := NewHTTP(ts.URL, time.Second).Report(context.Background(), 1)
	c.Assert(err, qt.IsNil)
}

func TestHTTPReportUnreachable(t *testing.T) {
	c := qt.New(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewHTTP(url, time.Second).Report(context.Background(), 1)
	c.Assert(err, qt.ErrorMatches, `report: post .*`)
}

func TestHTTPReportTimeout(t *testing.T) {
	c := qt.New(t)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	err := NewHTTP(ts.URL, 50*time.Millisecond).Report(context.Background(), 1)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestProbe(t *testing.T) {
	c := qt.New(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Method, qt.Equals, http.MethodGet)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	code, err := Probe(context.Background(), ts.URL, time.Second)
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, http.StatusNoContent)
}

type recordReporter struct {
	got []ranger.Distance
	err error
}

func (r *recordReporter) Report(_ context.Context, d ranger.Distance) error {
	r.got = append(r.got, d)
	return r.err
}

func TestMulti(t *testing.T) {
	c := qt.New(t)
	errDown := errors.New("broker down")
	a := &recordReporter{err: errDown}
	b := &recordReporter{}
	err := Multi{a, b, Discard{}}.Report(context.Background(), 12)
	c.Assert(err, qt.ErrorIs, errDown)
	c.Assert(a.got, qt.DeepEquals, []ranger.Distance{12})
	c.Assert(b.got, qt.DeepEquals, []ranger.Distance{12})

	c.Assert(Multi{b}.Report(context.Background(), 13), qt.IsNil)
	c.Assert(Multi(nil).Report(context.Background(), 13), qt.IsNil)
}
