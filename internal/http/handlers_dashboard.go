package http

import (
	"net/http"
	"strings"

	"admindash/internal/log"
	"admindash/internal/view"
)

type (
	selectCardRequest struct {
		Card string `json:"card"`
	}

	toggleCategoryRequest struct {
		Category string `json:"category"`
	}

	filterRequest struct {
		Level     string  `json:"level"`
		AccountID *string `json:"accountId"`
	}
)

// handleDashboard returns the bound view for the session. The first request
// of a session, or ?refresh=1, starts a load cycle.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.session(sessionID(w, r))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	dash, next, err := s.dashboard.View(r.Context(), sess.state, queryBool(r, "refresh"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess.state = next
	OK(w, dash)
}

func (s *Server) handleSelectCard(w http.ResponseWriter, r *http.Request) {
	var req selectCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	card, err := view.ParseCard(req.Card)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.transition(w, r, func(st view.State) (view.State, error) {
		return st.Select(card), nil
	}, log.FieldCard, card)
}

func (s *Server) handleToggleCategory(w http.ResponseWriter, r *http.Request) {
	var req toggleCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// Categories are matched exactly against stored transactions.
	category := stripControl(req.Category)
	if strings.TrimSpace(category) == "" {
		writeError(w, r, &BadRequest{Msg: "category is required"})
		return
	}
	s.transition(w, r, func(st view.State) (view.State, error) {
		return st.Toggle(category)
	}, log.FieldCategory, category)
}

// handleFilter switches level and account. An account id alone implies the
// account level; the organization level ignores any account id.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var level view.Level
	if req.Level != "" {
		l, err := view.ParseLevel(req.Level)
		if err != nil {
			writeError(w, r, err)
			return
		}
		level = l
	}
	if level == "" && req.AccountID == nil {
		writeError(w, r, &BadRequest{Msg: "level or accountId is required"})
		return
	}

	account := ""
	if req.AccountID != nil {
		account = sanitizeInput(*req.AccountID)
	}
	s.transition(w, r, func(st view.State) (view.State, error) {
		if level != "" {
			st = st.SetLevel(level)
		}
		if req.AccountID != nil && level != view.LevelOrganization {
			st = st.SetAccount(account)
		}
		return st, nil
	}, log.FieldAccountID, account)
}

// transition applies fn to the session's selection and responds with the
// rebound view. The stored selection only changes when both fn and the
// data load succeed.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(view.State) (view.State, error), logArgs ...any) {
	sid := sessionID(w, r)
	sess := s.session(sid)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := fn(sess.state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dash, next, err := s.dashboard.View(r.Context(), next, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess.state = next
	log.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard selection changed",
		append(logArgs, log.FieldSession, sid)...)
	OK(w, dash)
}
