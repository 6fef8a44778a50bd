package web

import (
	"net/http"

	"golang.org/x/text/language"

	"storytimeline/internal/i18n"
)

const langCookie = "lang"

// pickLanguage picks the UI language: ?lang= (persisted in a cookie), then the
// cookie, then Accept-Language, then the configured locale.
func (s *Server) pickLanguage(w http.ResponseWriter, r *http.Request) language.Tag {
	if tag, ok := i18n.ParseTag(r.URL.Query().Get("lang")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     langCookie,
			Value:    tag.String(),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return tag
	}
	if c, err := r.Cookie(langCookie); err == nil {
		if tag, ok := i18n.ParseTag(c.Value); ok {
			return tag
		}
	}
	if tag, ok := i18n.ParseAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return tag
	}
	if tag, ok := i18n.ParseTag(s.cfg.Locale); ok {
		return tag
	}
	return i18n.Default
}
