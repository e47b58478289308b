// Package handlers serves the moon dashboard over HTTP.
package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/powerman/structlog"

	"github.com/spencer-p/moondash/pkg/cache"
	"github.com/spencer-p/moondash/pkg/data"
	"github.com/spencer-p/moondash/pkg/moonphase"
	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/timetricks"
	"github.com/spencer-p/moondash/pkg/widget"
)

const (
	day            = 24 * time.Hour
	forecastLength = 7 * day
	defaultTTL     = time.Hour
)

var errBadParam = merry.New("bad parameter").WithHTTPCode(http.StatusBadRequest)

// UserStore persists saved places. *data.Users implements it.
type UserStore interface {
	Find(id uint) (*data.User, error)
	Save(u *data.User) error
}

type Options struct {
	Renderer *moonphase.Renderer
	// Places are offered on the config page; the first is the default.
	Places []sky.Place
	// Users is optional. Without it preferences live only in the cookie.
	Users UserStore

	SessionKey, EncryptionKey string
	CacheTTL                  time.Duration

	// Timeline, if set, returns the pre-computed timeline for the default
	// place.
	Timeline        func() []widget.Entry
	TimelineEntries int

	// Content holds static/ with the page templates and assets.
	Content fs.FS
	Log     *structlog.Logger
}

type Server struct {
	renderer  *moonphase.Renderer
	places    []sky.Place
	users     UserStore
	store     sessions.Store
	images    *cache.Timed
	windows   *cache.Timed
	timeline  func() []widget.Entry
	entries   int
	content   fs.FS
	log       *structlog.Logger
	now       func() time.Time
	indexTmpl *template.Template
	confTmpl  *template.Template
}

func New(o Options) (*Server, error) {
	if o.Renderer == nil {
		o.Renderer = moonphase.NewRenderer(moonphase.DefaultTexture(256))
	}
	if len(o.Places) == 0 {
		o.Places = []sky.Place{sky.SantaCruz}
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultTTL
	}
	if o.Log == nil {
		o.Log = structlog.New()
	}
	s := &Server{
		renderer: o.Renderer,
		places:   o.Places,
		users:    o.Users,
		store:    newCookieStore(o.SessionKey, o.EncryptionKey),
		images:   cache.NewTimed(o.CacheTTL),
		// Windows shift slowly; cache them for slightly less than a day so
		// daily visitors don't see stale data.
		windows:  cache.NewTimed(23 * time.Hour),
		timeline: o.Timeline,
		entries:  o.TimelineEntries,
		content:  o.Content,
		log:      o.Log,
		now:      time.Now,
	}
	if o.Content != nil {
		var err error
		if s.indexTmpl, err = template.New("index.template.html").Funcs(funcs).ParseFS(o.Content, "static/index.template.html"); err != nil {
			return nil, merry.Append(err, "failed to parse index template")
		}
		if s.confTmpl, err = template.New("config.template.html").Funcs(funcs).ParseFS(o.Content, "static/config.template.html"); err != nil {
			return nil, merry.Append(err, "failed to parse config template")
		}
	}
	return s, nil
}

var funcs = template.FuncMap{
	"clock":  func(t *time.Time) string { return timetricks.Clock(*t) },
	"hm":     timetricks.HourMinute,
	"join":   strings.Join,
	"mul100": func(f float64) float64 { return 100 * f },
}

// Register adds every route to r. prefix is the path r is mounted under.
func (s *Server) Register(r *mux.Router, prefix string) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/moon.png", s.serveMoon).Methods(http.MethodGet)
	api.HandleFunc("/sky", s.serveSky).Methods(http.MethodGet)
	api.HandleFunc("/timeline", s.serveTimeline).Methods(http.MethodGet)
	api.HandleFunc("/viewing", s.serveViewing).Methods(http.MethodGet)

	if s.content == nil {
		return
	}
	r.HandleFunc("/", s.serveIndex(prefix)).Methods(http.MethodGet)
	r.HandleFunc("/config", s.serveConfig(prefix)).Methods(http.MethodGet, http.MethodPost)
	r.PathPrefix("/static/").Handler(http.StripPrefix(prefix, http.FileServer(http.FS(s.content))))
}

// Prewarm renders the moon for each entry so the first visitors of the hour
// hit the cache.
func (s *Server) Prewarm(entries []widget.Entry) {
	place := s.places[0]
	for _, e := range entries {
		q := moonQuery{
			in: moonphase.PhaseInput{
				IlluminatedFraction: e.MoonFrac,
				AgeDays:             e.MoonAge,
				Latitude:            place.Lat,
			},
		}
		if _, err := s.moonPNG(q); err != nil {
			s.log.PrintErr("prewarm failed", "age", e.MoonAge, "err", err)
		}
	}
	s.log.Debug("prewarmed moon cache", "entries", len(entries), "cached", s.images.Sweep())
}

// fail reports err to the client with its merry HTTP code, 500 by default.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := merry.HTTPCode(err)
	if code >= 500 {
		s.log.PrintErr(err, "method", r.Method, "url", r.URL.String())
	} else {
		s.log.Debug(err, "method", r.Method, "url", r.URL.String(), "code", code)
	}
	http.Error(w, err.Error(), code)
}
