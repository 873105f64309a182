// This file holds the helpers that read request bodies, query values and the
// session cookie.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"admindash/internal/view"

	"github.com/google/uuid"
)

const (
	maxBodyBytes      = 1 << 20
	sessionCookieName = "admindash_session"
)

// BadRequest marks malformed input. It maps to HTTP 400.
type BadRequest struct {
	Msg string
}

func (e *BadRequest) Error() string { return e.Msg }

// decodeJSON reads a single JSON value from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &BadRequest{Msg: "request body is empty"}
		case errors.As(err, &maxErr):
			return &BadRequest{Msg: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		default:
			return &BadRequest{Msg: "invalid JSON: " + err.Error()}
		}
	}
	if dec.More() {
		return &BadRequest{Msg: "request body must hold a single JSON value"}
	}
	return nil
}

// stripControl removes control characters except tab, newline and carriage
// return. Surrounding spaces are kept so the value still matches stored data.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// sanitizeInput strips control characters and surrounding whitespace from
// form values.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

// sanitizeAll applies sanitizeInput in place.
func sanitizeAll(fields ...*string) {
	for _, f := range fields {
		*f = sanitizeInput(*f)
	}
}

// queryBool reads a boolean query flag; "1", "true" and "yes" are true.
func queryBool(r *http.Request, key string) bool {
	v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	if v == "yes" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// sessionID returns the caller's session id, issuing a cookie for a new one.
// Ids that are not UUIDs are replaced.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// session holds one browser session's selection. mu is held for a whole
// request so concurrent transitions of a session apply one after another.
type session struct {
	mu    sync.Mutex
	state view.State
}

// session returns the entry for id, creating it on first use. Lookups also
// extend its TTL.
func (s *Server) session(id string) *session {
	sess, _ := s.sessions.Update(id, func(cur *session, found bool) (*session, error) {
		if found {
			return cur, nil
		}
		return &session{state: view.NewState()}, nil
	})
	return sess
}
