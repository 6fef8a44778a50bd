package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"storytimeline/internal/capture"
	appLog "storytimeline/internal/log"
	"storytimeline/internal/slideshow"
)

// actionResponse is the JSON shape of every POST /api/* reply.
type actionResponse struct {
	Accepted bool           `json:"accepted"`
	State    slideshow.View `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deck.View())
}

// navigate wraps a deck movement. A rejected request (bounds, pending
// transition) is still a 200 with accepted=false.
func (s *Server) navigate(name string, move func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accepted := move()
		appLog.Debug("navigation request", "action", name, "accepted", accepted)
		s.respond(w, r, accepted)
	}
}

// handleJump moves to the event given by the "index" form or query value.
func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.FormValue("index"))
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	accepted := s.deck.Jump(index)
	appLog.Debug("navigation request", "action", "jump", "index", index, "accepted", accepted)
	s.respond(w, r, accepted)
}

func (s *Server) handleQuizOpen(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deck.OpenQuiz())
}

// handleQuizAnswer submits the "choice" form value.
func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	choice := r.FormValue("choice")
	q, ok := s.deck.SubmitAnswer(choice)
	if ok {
		appLog.Debug("quiz answered", "correct", q.Correct)
	}
	s.respond(w, r, ok)
}

// handlePreview serves the exported PNG of the current slide, if any.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	index := s.deck.State().Index
	path := filepath.Join(s.cfg.ExportDir, capture.SlideFileName(index))

	// http.ServeFile answers 404 for a slide that was never exported.
	http.ServeFile(w, r, path)
}

// respond sends JSON to script clients and redirects plain form posts
// back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, accepted bool) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{
		Accepted: accepted,
		State:    s.deck.View(),
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
