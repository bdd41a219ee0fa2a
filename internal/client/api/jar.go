package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/okulov/chatter/internal/filex"
)

// sessionJar is a minimal persistent cookie jar. The client only ever deals
// with the single session cookie of one server, so a full RFC 6265 jar is
// unnecessary; what matters is that the token survives restarts like a
// browser cookie does.
type sessionJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string]storedCookie
	now     func() time.Time
}

const jarSchemaVersion = 1

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

type jarFile struct {
	Version int            `json:"version"`
	Cookies []storedCookie `json:"cookies"`
}

// newSessionJar loads previously saved cookies from path. A missing,
// corrupt, or version-mismatched file starts an empty jar.
func newSessionJar(path string) *sessionJar {
	j := &sessionJar{
		path:    path,
		cookies: make(map[string]storedCookie),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return j
	}
	var f jarFile
	if err := json.Unmarshal(data, &f); err != nil || f.Version != jarSchemaVersion {
		_ = os.Remove(path)
		return j
	}
	for _, c := range f.Cookies {
		j.cookies[c.Name] = c
	}
	return j
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cookies {
		switch {
		case c.MaxAge < 0:
			delete(j.cookies, c.Name)
		case c.MaxAge > 0:
			j.cookies[c.Name] = storedCookie{
				Name:    c.Name,
				Value:   c.Value,
				Expires: now.Add(time.Duration(c.MaxAge) * time.Second),
			}
		case !c.Expires.IsZero() && c.Expires.Before(now):
			delete(j.cookies, c.Name)
		default:
			j.cookies[c.Name] = storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
		}
	}

	j.persist()
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for name, c := range j.cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			delete(j.cookies, name)
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// persist writes the jar under its existing lock. Failures are swallowed:
// losing cookie persistence degrades to an in-memory session, which is safe.
func (j *sessionJar) persist() {
	f := jarFile{Version: jarSchemaVersion}
	for _, c := range j.cookies {
		f.Cookies = append(f.Cookies, c)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	_ = filex.WriteFileAtomic(j.path, data, 0o600)
}
