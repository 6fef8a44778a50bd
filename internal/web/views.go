package web

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"storytimeline/internal/i18n"
	appLog "storytimeline/internal/log"
	"storytimeline/internal/slideshow"
)

// handleIndex renders the live slideshow.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tag := s.pickLanguage(w, r)
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(timelinePage(s.newPageData(s.deck.View(), tag, false))).ServeHTTP(w, r)
}

// handlePrint renders event {index} read-only for capture. It never moves
// the deck.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	tag := s.pickLanguage(w, r)

	index, err := strconv.Atoi(r.PathValue("index"))
	var view slideshow.View
	if err == nil {
		view, err = s.deck.ViewAt(index)
	}
	if err != nil {
		appLog.Debug("print request rejected", "index", r.PathValue("index"), "err", err.Error())
		http.Error(w, i18n.Printer(tag).Sprintf("error.not_found"), http.StatusNotFound)
		return
	}
	templ.Handler(timelinePage(s.newPageData(view, tag, true))).ServeHTTP(w, r)
}

func (s *Server) newPageData(v slideshow.View, tag language.Tag, printMode bool) pageData {
	return pageData{
		View:         v,
		Lang:         tag,
		Title:        s.cfg.Title,
		Badge:        s.cfg.Badge,
		Print:        printMode,
		TransitionMS: int(s.cfg.TransitionDelay().Milliseconds()),
	}
}
