package handlers

import (
	"crypto/sha1"
	"net/http"
	"path"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/moondash/pkg/data"
	"github.com/spencer-p/moondash/pkg/metrics"
	"github.com/spencer-p/moondash/pkg/sky"
)

const (
	sessionName       = "moondash"
	sessionLastViewed = "last-viewed-referrer"
	userID            = "userid"
	placeName         = "name"
	placeLat          = "lat"
	placeLong         = "long"
	placeZone         = "tz"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

func newCookieStore(sessionKey, encryptionKey string) *sessions.CookieStore {
	if sessionKey == "" {
		sessionKey = "deadbeef"
	}
	if encryptionKey == "" {
		encryptionKey = "deadbeef"
	}
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(sessionKey),
			deriveKey(encryptionKey),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

// deriveKey stretches a password into an AES-256 key.
func deriveKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

// placeFor returns the place the visitor saved, or the default place. The
// user is nil unless the place came from the user store.
func (s *Server) placeFor(r *http.Request) (sky.Place, *data.User) {
	session, _ := s.store.Get(r, sessionName)
	place, user := s.placeFromSession(session)
	metrics.ObserveUserRequest(user != nil || session.Values[placeLat] != nil)
	return place, user
}

func (s *Server) placeFromSession(session *sessions.Session) (sky.Place, *data.User) {
	if id, ok := session.Values[userID].(uint); ok && s.users != nil {
		// A failed lookup is fine, the cookie still has the place.
		user, err := s.users.Find(id)
		if err != nil {
			s.log.Debug("user lookup failed", "id", id, "err", err)
		} else if user.HasPlace() {
			p := sky.Place{
				Name:     user.Name,
				Lat:      *user.Latitude,
				Long:     *user.Longitude,
				TimeZone: user.TimeZone,
			}
			if err := p.Resolve(); err == nil {
				return p, user
			}
		}
	}

	lat, okLat := session.Values[placeLat].(float64)
	long, okLong := session.Values[placeLong].(float64)
	if !okLat || !okLong {
		return s.places[0], nil
	}
	p := sky.Place{Lat: lat, Long: long}
	p.Name, _ = session.Values[placeName].(string)
	p.TimeZone, _ = session.Values[placeZone].(string)
	if err := p.Resolve(); err != nil {
		s.log.Debug("bad zone in session", "err", err)
		p.TimeZone, p.Location = "", nil
		p.Resolve()
	}
	return p, nil
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}
