package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ansel1/merry"

	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/viewing"
	"github.com/spencer-p/moondash/pkg/widget"
)

// TimelineEntry is a widget entry with its countdown, when it has one.
type TimelineEntry struct {
	widget.Entry
	Countdown *widget.Countdown `json:"countdown,omitempty"`
}

func (s *Server) serveSky(w http.ResponseWriter, r *http.Request) {
	place, _ := s.placeFor(r)
	report := sky.NewReport(s.now(), place)
	if v := r.FormValue("heading"); v != "" {
		heading, ok, err := floatParam(r, "heading")
		if err != nil || !ok {
			s.fail(w, r, merry.Appendf(errBadParam, "heading=%q", v))
			return
		}
		report.AlignTo(heading)
	}
	s.writeJSON(w, report)
}

func (s *Server) serveTimeline(w http.ResponseWriter, r *http.Request) {
	place, _ := s.placeFor(r)
	s.writeJSON(w, withCountdowns(s.timelineFor(place)))
}

func (s *Server) timelineFor(place sky.Place) []widget.Entry {
	if s.timeline != nil && samePlace(place, s.places[0]) {
		return s.timeline()
	}
	return widget.Timeline(s.now(), place, s.entries)
}

func samePlace(a, b sky.Place) bool {
	return a.Lat == b.Lat && a.Long == b.Long && a.Loc().String() == b.Loc().String()
}

func withCountdowns(entries []widget.Entry) []TimelineEntry {
	out := make([]TimelineEntry, len(entries))
	for i, e := range entries {
		out[i].Entry = e
		if c, ok := e.Countdown(); ok {
			out[i].Countdown = &c
		}
	}
	return out
}

func (s *Server) windowsFor(place sky.Place) []viewing.Window {
	windows := viewing.Windows(viewing.ForPlace(s.now(), forecastLength, place))
	for i := range windows {
		windows[i].UpdatePrettyTime()
	}
	return windows
}

func (s *Server) serveViewing(w http.ResponseWriter, r *http.Request) {
	place, _ := s.placeFor(r)

	// The place is part of the key since it may come from the cookie.
	key := fmt.Sprintf("%s %s %v,%v", r.Method, r.URL, place.Lat, place.Long)
	if cached, ok := s.windows.Get(key); ok {
		w.Header().Add("Content-Type", contentType(r))
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	windows := s.windowsFor(place)

	// Duplicate the response onto a buffer for the cache.
	var toCache bytes.Buffer
	mw := io.MultiWriter(w, &toCache)

	w.Header().Add("Content-Type", contentType(r))
	w.WriteHeader(http.StatusOK)
	if r.FormValue("o") == "text" {
		for i := range windows {
			fmt.Fprintf(mw, "%s\n", windows[i].String())
		}
	} else if err := json.NewEncoder(mw).Encode(windows); err != nil {
		s.log.PrintErr("failed to encode windows", "err", err)
		return
	}
	s.windows.Set(key, toCache.Bytes())
}

func contentType(r *http.Request) string {
	if r.FormValue("o") == "text" {
		return "text/plain"
	}
	return "application/json"
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		s.log.PrintErr("failed to encode response", "err", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b.Bytes())
}
