// Package slideshow drives the timeline presentation: which event is
// shown, its media reference and the visitor's quiz answer.
package slideshow

import (
	"math"

	appLog "storytimeline/internal/log"
	"storytimeline/internal/model"
	"storytimeline/internal/store"
)

// TimelineEntry is one item of the jump strip.
type TimelineEntry struct {
	Index   int    `json:"index"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	HasQuiz bool   `json:"has_quiz"`
	Current bool   `json:"current"`
}

// View is the read-only picture the presentation layer renders.
type View struct {
	Index         int             `json:"index"`
	Total         int             `json:"total"`
	Transitioning bool            `json:"transitioning"`
	Progress      int             `json:"progress"`
	HasPrev       bool            `json:"has_prev"`
	HasNext       bool            `json:"has_next"`
	Event         model.Event     `json:"event"`
	Media         *MediaRef       `json:"media"`
	Quiz          QuizSession     `json:"quiz"`
	Timeline      []TimelineEntry `json:"timeline"`
}

// Deck composes the event store, the navigator, the media resolver and the
// quiz session. All dependent state is guarded by the navigator lock.
type Deck struct {
	events *store.Store
	nav    *Navigator

	quiz  QuizSession
	media *MediaRef
}

// NewDeck builds a deck positioned on the first event.
func NewDeck(events *store.Store, opts ...Option) (*Deck, error) {
	nav, err := NewNavigator(events.Len(), opts...)
	if err != nil {
		return nil, err
	}
	d := &Deck{events: events, nav: nav}
	d.media = d.resolve(0)
	nav.OnCommit(d.onCommit)
	return d, nil
}

// Navigator exposes the underlying controller (read-only state, hooks).
func (d *Deck) Navigator() *Navigator {
	return d.nav
}

// State returns the navigation state without building a full view.
func (d *Deck) State() State {
	return d.nav.State()
}

// Len returns the number of events.
func (d *Deck) Len() int {
	return d.events.Len()
}

func (d *Deck) Next() bool      { return d.nav.Next() }
func (d *Deck) Previous() bool  { return d.nav.Previous() }
func (d *Deck) Jump(i int) bool { return d.nav.Jump(i) }
func (d *Deck) Home() bool      { return d.nav.Home() }

// Close cancels any pending transition.
func (d *Deck) Close() { d.nav.Close() }

// OpenQuiz reveals the current event's question. It is a no-op when the
// event has no quiz or a transition is pending.
func (d *Deck) OpenQuiz() bool {
	ok := false
	d.nav.Do(func(st State) {
		if st.Transitioning || !d.current(st).HasQuiz() {
			return
		}
		d.quiz.Open()
		ok = true
	})
	return ok
}

// SubmitAnswer records choice against the current event's quiz and returns
// the resulting session. It is a no-op when the event has no quiz or a
// transition is pending.
func (d *Deck) SubmitAnswer(choice string) (QuizSession, bool) {
	var (
		out QuizSession
		ok  bool
	)
	d.nav.Do(func(st State) {
		ev := d.current(st)
		if st.Transitioning || !ev.HasQuiz() {
			out = d.quiz
			return
		}
		d.quiz.Submit(choice, ev.Quiz.Answer)
		out, ok = d.quiz, true
	})
	return out, ok
}

// View snapshots the current state.
func (d *Deck) View() View {
	var v View
	d.nav.Do(func(st State) {
		v = d.buildView(st.Index, st.Transitioning)
		v.Quiz = d.quiz
		if d.media != nil {
			m := *d.media
			v.Media = &m
		}
	})
	return v
}

// ViewAt renders event i read-only: fresh quiz, no transition. It does not
// move the deck.
func (d *Deck) ViewAt(i int) (View, error) {
	if _, err := d.events.At(i); err != nil {
		return View{}, err
	}
	v := d.buildView(i, false)
	v.Media = d.resolve(i)
	return v, nil
}

func (d *Deck) buildView(index int, transitioning bool) View {
	all := d.events.All()
	timeline := make([]TimelineEntry, len(all))
	for i, ev := range all {
		timeline[i] = TimelineEntry{
			Index:   i,
			Date:    ev.Date,
			Title:   ev.Title,
			HasQuiz: ev.HasQuiz(),
			Current: i == index,
		}
	}
	return View{
		Index:         index,
		Total:         len(all),
		Transitioning: transitioning,
		Progress:      Progress(index, len(all)),
		HasPrev:       index > 0,
		HasNext:       index < len(all)-1,
		Event:         all[index],
		Timeline:      timeline,
	}
}

// onCommit runs under the navigator lock on every committed navigation.
func (d *Deck) onCommit(from, to int) {
	d.quiz.Reset()
	d.media = d.resolve(to)
	appLog.Debug("slide committed", "from", from, "to", to)
}

func (d *Deck) current(st State) model.Event {
	ev, _ := d.events.At(st.Index)
	return ev
}

// resolve returns nil when the event has no usable media.
func (d *Deck) resolve(i int) *MediaRef {
	ev, err := d.events.At(i)
	if err != nil {
		return nil
	}
	ref, ok := ResolveMedia(ev.Image)
	if !ok {
		if ev.Image != "" {
			appLog.Debug("media reference unusable; showing placeholder", "index", i, "image", ev.Image)
		}
		return nil
	}
	return &ref
}

// Progress returns round((index+1)/total*100).
func Progress(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(index+1) / float64(total) * 100))
}
