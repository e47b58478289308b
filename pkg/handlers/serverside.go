package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ansel1/merry"
	"github.com/gorilla/sessions"

	"github.com/spencer-p/moondash/pkg/config"
	"github.com/spencer-p/moondash/pkg/data"
	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/timetricks"
	"github.com/spencer-p/moondash/pkg/viewing"
	"github.com/spencer-p/moondash/pkg/visualize"
)

type TemplateInput struct {
	Place     sky.Place
	Report    sky.Report
	Daylight  template.HTML
	MoonURL   string
	ConfigURL string
	Timeline  []TimelineEntry
	Days      []PresentationElement
	NextStart string
	PrevStart string
}

// PresentationElement is one day of viewing windows.
type PresentationElement struct {
	Date     string
	Windows  []viewing.Window
	Daylight template.HTML
}

// serveIndex serves the dashboard fully rendered on the server.
func (s *Server) serveIndex(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.store.Get(r, sessionName)
		session.Values[sessionLastViewed] = r.URL.String()
		if err := session.Save(r, w); err != nil {
			s.log.PrintErr("failed to save session", "err", err)
		}
		place, _ := s.placeFor(r)

		date := s.now()
		if startString := r.FormValue("start"); startString != "" {
			parsed, err := time.Parse(time.RFC3339, startString)
			if err != nil {
				s.log.Debug("bad start time", "start", startString, "err", err)
			} else {
				date = parsed
			}
		}

		report := sky.NewReport(date, place)
		windows := viewing.Windows(viewing.ForPlace(date, forecastLength, place))

		moonURL := url.URL{
			Path: pathJoinPreservePrefix(prefix, "/api/v1/moon.png"),
			RawQuery: url.Values{
				"age":      {strconv.FormatFloat(report.Moon.AgeDays, 'f', 2, 64)},
				"fraction": {strconv.FormatFloat(report.Moon.Fraction, 'f', 3, 64)},
				"lat":      {strconv.FormatFloat(place.Lat, 'f', 2, 64)},
			}.Encode(),
		}

		tinput := TemplateInput{
			Place:     place,
			Report:    report,
			Daylight:  template.HTML(daylightSVG(report)),
			MoonURL:   moonURL.String(),
			ConfigURL: pathJoinPreservePrefix(prefix, "/config"),
			Timeline:  withCountdowns(s.timelineFor(place)),
			Days:      windowsToPresentationElements(place, windows),
			NextStart: date.Add(forecastLength).Format(time.RFC3339),
			PrevStart: date.Add(-1 * forecastLength).Format(time.RFC3339),
		}

		var b bytes.Buffer
		if err := s.indexTmpl.Execute(&b, tinput); err != nil {
			s.fail(w, r, merry.Append(err, "failed to execute template"))
			return
		}
		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write(b.Bytes())
	}
}

func daylightSVG(report sky.Report) string {
	var b bytes.Buffer
	visualize.NewDaylight(report).Encode(&b)
	return b.String()
}

func windowsToPresentationElements(place sky.Place, windows []viewing.Window) []PresentationElement {
	var f func(result []PresentationElement, windows []viewing.Window) []PresentationElement
	f = func(result []PresentationElement, windows []viewing.Window) []PresentationElement {
		if len(windows) == 0 {
			return result
		}

		n := len(result)
		win := windows[0]
		win.UpdatePrettyTime()

		if n != 0 && result[n-1].Date == timetricks.Day(win.Time) {
			// Same day as the previous window.
			result[n-1].Windows = append(result[n-1].Windows, win)
		} else {
			result = append(result, PresentationElement{
				Date:     timetricks.Day(win.Time),
				Windows:  []viewing.Window{win},
				Daylight: template.HTML(daylightSVG(sky.NewReport(win.Time, place))),
			})
		}

		return f(result, windows[1:])
	}

	return f(nil, windows)
}

func (s *Server) serveConfig(redirectPrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.store.Get(r, sessionName)
		place, user := s.placeFor(r)

		if r.Method == http.MethodGet {
			session.Save(r, w)
			var b bytes.Buffer
			if err := s.confTmpl.Execute(&b, map[string]interface{}{
				"Place":  place,
				"Places": s.places,
				"User":   user,
			}); err != nil {
				s.fail(w, r, merry.Append(err, "failed to execute config template"))
				return
			}
			w.Header().Add("Content-Type", "text/html")
			w.Write(b.Bytes())
			return
		}

		if err := r.ParseForm(); err != nil {
			s.fail(w, r, merry.Append(err, "failed to parse form").WithHTTPCode(http.StatusBadRequest))
			return
		}
		chosen, err := s.placeFromForm(r.PostForm)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		session.Values[placeName] = chosen.Name
		session.Values[placeLat] = chosen.Lat
		session.Values[placeLong] = chosen.Long
		session.Values[placeZone] = chosen.TimeZone

		if s.users != nil {
			if err := s.saveUser(session, user, chosen); err != nil {
				s.fail(w, r, err)
				return
			}
		}
		if err := session.Save(r, w); err != nil {
			s.log.PrintErr("failed to save session", "err", err)
		}

		// Redirect to whatever they saw last, or the index.
		referredFrom, ok := session.Values[sessionLastViewed].(string)
		if !ok || referredFrom == "/config" {
			referredFrom = "/"
		}
		http.Redirect(w, r, pathJoinPreservePrefix(redirectPrefix, referredFrom), http.StatusFound)
	}
}

// placeFromForm reads either a named place ("place" is its index) or custom
// name, lat, long and tz fields.
func (s *Server) placeFromForm(form url.Values) (sky.Place, error) {
	if v := form.Get("place"); v != "" && v != "custom" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 || i >= len(s.places) {
			return sky.Place{}, merry.Appendf(errBadParam, "place=%q is not a known place", v)
		}
		return s.places[i], nil
	}

	p := sky.Place{
		Name:     form.Get("name"),
		TimeZone: form.Get("tz"),
	}
	var err error
	if p.Lat, err = strconv.ParseFloat(form.Get("lat"), 64); err != nil {
		return p, merry.Appendf(errBadParam, "lat=%q is not a number", form.Get("lat"))
	}
	if p.Long, err = strconv.ParseFloat(form.Get("long"), 64); err != nil {
		return p, merry.Appendf(errBadParam, "long=%q is not a number", form.Get("long"))
	}
	if err := config.ValidatePlace(p); err != nil {
		return p, merry.Append(errBadParam, err.Error())
	}
	return p, nil
}

func (s *Server) saveUser(session *sessions.Session, user *data.User, p sky.Place) error {
	if user == nil {
		user = &data.User{}
		if id, ok := session.Values[userID].(uint); ok {
			if found, err := s.users.Find(id); err == nil {
				user = found
			}
		}
	}
	if user.UpdatedAt.IsZero() {
		s.log.Debug("new user", "name", p.Name)
	} else {
		s.log.Debug("updating user", "id", user.ID, "since", time.Since(user.UpdatedAt))
	}

	user.Name = p.Name
	user.Latitude = ptr(p.Lat)
	user.Longitude = ptr(p.Long)
	user.TimeZone = p.TimeZone
	if err := s.users.Save(user); err != nil {
		return merry.Append(err, "failed to save preferences")
	}
	session.Values[userID] = user.ID
	return nil
}

func ptr[T any](t T) *T {
	return &t
}
