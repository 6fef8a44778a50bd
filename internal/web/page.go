package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"storytimeline/internal/i18n"
	"storytimeline/internal/slideshow"
)

// pageData is everything the page component renders.
type pageData struct {
	View  slideshow.View
	Lang  language.Tag
	Title string
	Badge string

	// Print renders a static, form-free page marked ready for capture.
	Print bool

	// TransitionMS is exposed to the script so it knows how long to fade.
	TransitionMS int
}

// htmlWriter accumulates the first write error so rendering code stays flat.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.rawf(` %s="%s"`, name, templ.EscapeString(value))
}

// timelinePage renders the full slideshow document.
func timelinePage(d pageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := i18n.Printer(d.Lang)
		h := &htmlWriter{w: w}
		v := d.View

		h.raw("<!DOCTYPE html>\n<html")
		h.attr("lang", d.Lang.String())
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(d.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css">`)
		if v.Transitioning && !d.Print {
			// Without script the page re-polls until the fade has committed.
			h.raw(`<meta http-equiv="refresh" content="1">`)
		}
		h.raw("</head><body")
		h.attr("data-ready", strconv.FormatBool(d.Print || !v.Transitioning))
		h.attr("data-transition-ms", strconv.Itoa(d.TransitionMS))
		if d.Print {
			h.attr("class", "print")
		}
		h.raw(">")

		renderHeader(h, d, p)
		h.raw("<main>")
		renderProgress(h, v, p)
		renderCard(h, d, p)
		if !d.Print {
			renderControls(h, v, p)
		}
		renderTimeline(h, d, p)
		h.raw("</main>")
		renderFooter(h, v, p)

		if !d.Print {
			h.raw(`<script src="/static/app.js" defer></script>`)
		}
		h.raw("</body></html>\n")
		return h.err
	})
}

func renderHeader(h *htmlWriter, d pageData, p *message.Printer) {
	h.raw(`<header class="header">`)
	if d.Print {
		h.raw(`<h1 class="title">`)
		h.text(d.Title)
		h.raw("</h1>")
	} else {
		h.raw(`<form method="post" action="/api/home" class="home"><button type="submit" class="title"`)
		h.attr("title", p.Sprintf("nav.home"))
		h.raw(">")
		h.text(d.Title)
		h.raw("</button></form>")
	}
	h.raw(`<span class="badge">`)
	h.text(d.Badge)
	h.raw("</span></header>")
}

func renderProgress(h *htmlWriter, v slideshow.View, p *message.Printer) {
	h.raw(`<section class="progress"><p class="counter">`)
	h.text(p.Sprintf("progress.counter", v.Index+1, v.Total))
	h.raw(`</p><p class="percent">`)
	h.text(strconv.Itoa(v.Progress) + "%")
	h.raw(`</p><div class="bar"`)
	h.attr("role", "progressbar")
	h.attr("aria-valuenow", strconv.Itoa(v.Progress))
	h.raw(`><div class="fill"`)
	h.attr("style", fmt.Sprintf("width: %d%%", v.Progress))
	h.raw("></div></div></section>")
}

func renderCard(h *htmlWriter, d pageData, p *message.Printer) {
	v := d.View
	class := "card"
	if v.Transitioning {
		class += " fading"
	}
	h.raw(`<article id="card"`)
	h.attr("class", class)
	h.raw(`><div class="media">`)
	renderMedia(h, v, p)
	h.raw(`</div><div class="body"><p class="date">`)
	h.text(v.Event.Date)
	h.raw("</p><h2>")
	h.text(v.Event.Title)
	h.raw(`</h2><p class="description">`)
	h.text(v.Event.Description)
	h.raw("</p>")
	if v.Event.HasQuiz() {
		renderQuiz(h, d, p)
	}
	h.raw("</div></article>")
}

func renderMedia(h *htmlWriter, v slideshow.View, p *message.Printer) {
	m := v.Media
	switch {
	case m == nil:
		h.raw(`<div class="placeholder"><span>`)
		h.text(p.Sprintf("media.placeholder"))
		h.raw("</span>")
		if v.Event.Image != "" {
			h.raw("<small>")
			h.text(v.Event.Image)
			h.raw("</small>")
		}
		h.raw("</div>")
	case m.Kind == slideshow.MediaVideo:
		h.raw(`<video controls playsinline preload="metadata"><source`)
		h.attr("src", string(templ.URL(m.URL)))
		h.attr("type", m.MIMEType())
		h.raw(">")
		h.text(p.Sprintf("media.video_unsupported"))
		h.raw("</video>")
	default:
		h.raw("<img")
		h.attr("src", string(templ.URL(m.URL)))
		h.attr("alt", v.Event.Title)
		h.raw(">")
	}
}

func renderQuiz(h *htmlWriter, d pageData, p *message.Printer) {
	v := d.View
	q := v.Event.Quiz
	s := v.Quiz

	h.raw(`<section class="quiz">`)
	if !s.Opened && !d.Print {
		h.raw(`<form method="post" action="/api/quiz/open"><button type="submit" class="quiz-open">`)
		h.text(p.Sprintf("quiz.open"))
		h.raw("</button></form></section>")
		return
	}

	h.raw(`<p class="question">`)
	h.text(q.Question)
	h.raw("</p>")

	answerable := !s.Revealed && !d.Print
	if answerable {
		h.raw(`<form method="post" action="/api/quiz/answer" class="options">`)
	} else {
		h.raw(`<div class="options">`)
	}
	for _, opt := range q.Options {
		class := "option"
		if s.Revealed {
			switch {
			case opt == q.Answer:
				class += " correct"
			case opt == s.Selected:
				class += " wrong"
			}
		}
		h.raw(`<button type="submit" name="choice"`)
		h.attr("value", opt)
		h.attr("class", class)
		if !answerable {
			h.raw(" disabled")
		}
		h.raw(">")
		h.text(opt)
		h.raw("</button>")
	}
	if answerable {
		h.raw("</form>")
	} else {
		h.raw("</div>")
	}

	if s.Revealed {
		result, class := p.Sprintf("quiz.wrong"), "result wrong"
		if s.Correct {
			result, class = p.Sprintf("quiz.correct"), "result correct"
		}
		h.raw("<div")
		h.attr("class", class)
		h.raw("><p>")
		h.text(result)
		h.raw("</p><p>")
		h.text(p.Sprintf("quiz.your_answer"))
		h.raw(" <strong>")
		h.text(s.Selected)
		h.raw("</strong></p>")
		if !s.Correct {
			h.raw("<p>")
			h.text(p.Sprintf("quiz.right_answer"))
			h.raw(" <strong>")
			h.text(q.Answer)
			h.raw("</strong></p>")
		}
		h.raw("</div>")
	}
	h.raw("</section>")
}

func renderControls(h *htmlWriter, v slideshow.View, p *message.Printer) {
	h.raw(`<nav class="controls"><form method="post" action="/api/previous"><button type="submit" class="prev"`)
	if !v.HasPrev {
		h.raw(" disabled")
	}
	h.raw(">")
	h.text("← " + p.Sprintf("nav.previous"))
	h.raw(`</button></form><div class="dots">`)
	for _, e := range v.Timeline {
		class := "dot"
		if e.Current {
			class += " current"
		}
		h.raw(`<form method="post" action="/api/jump"><button type="submit" name="index"`)
		h.attr("value", strconv.Itoa(e.Index))
		h.attr("class", class)
		h.attr("title", p.Sprintf("timeline.dot_title", e.Index+1, e.Title))
		h.raw("></button></form>")
	}
	h.raw(`</div><form method="post" action="/api/next"><button type="submit" class="next"`)
	if !v.HasNext {
		h.raw(" disabled")
	}
	h.raw(">")
	h.text(p.Sprintf("nav.next") + " →")
	h.raw("</button></form></nav>")
}

func renderTimeline(h *htmlWriter, d pageData, p *message.Printer) {
	h.raw(`<section class="timeline"><h3>`)
	h.text(p.Sprintf("timeline.heading"))
	h.raw("</h3><ol>")
	for _, e := range d.View.Timeline {
		class := "entry"
		if e.Current {
			class += " current"
		}
		h.raw("<li")
		h.attr("class", class)
		h.raw(">")
		if d.Print {
			h.raw("<span>")
		} else {
			h.raw(`<form method="post" action="/api/jump"><button type="submit" name="index"`)
			h.attr("value", strconv.Itoa(e.Index))
			h.raw(">")
		}
		h.raw(`<span class="entry-date">`)
		h.text(e.Date)
		h.raw(`</span><span class="entry-title">`)
		h.text(e.Title)
		h.raw("</span>")
		if d.Print {
			h.raw("</span>")
		} else {
			h.raw("</button></form>")
		}
		h.raw("</li>")
	}
	h.raw("</ol></section>")
}

func renderFooter(h *htmlWriter, v slideshow.View, p *message.Printer) {
	quizzes := 0
	for _, e := range v.Timeline {
		if e.HasQuiz {
			quizzes++
		}
	}
	h.raw(`<footer class="footer"><p>`)
	h.text(p.Sprintf("footer.made_with"))
	h.raw(`</p><ul class="stats"><li>`)
	h.text(p.Sprintf("footer.moments", v.Total))
	h.raw("</li><li>")
	h.text(p.Sprintf("footer.quizzes", quizzes))
	h.raw("</li><li>")
	h.text(p.Sprintf("footer.love"))
	h.raw("</li></ul></footer>")
}
