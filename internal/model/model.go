package model

import "time"

// Event is one dated milestone of the timeline. Image and Quiz are optional:
// an empty Image means "no media", a nil Quiz means the event has no quiz.
type Event struct {
	Date        string `json:"date" yaml:"date"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Quiz        *Quiz  `json:"quiz,omitempty" yaml:"quiz,omitempty"`

	// Start is only known for events imported from a calendar; it orders
	// them and is never shown.
	Start time.Time `json:"-" yaml:"-"`
}

// HasQuiz reports whether the event carries a usable quiz.
func (e Event) HasQuiz() bool {
	return e.Quiz != nil && len(e.Quiz.Options) > 0
}

// Quiz is a multiple-choice question attached to an event. Answer is
// expected to equal exactly one of Options.
type Quiz struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// Problems lists data issues that the slideshow tolerates but the author
// probably wants to fix: duplicate options and an answer matching no option.
func (q Quiz) Problems() []string {
	var out []string
	seen := make(map[string]bool, len(q.Options))
	matched := false
	for _, opt := range q.Options {
		if seen[opt] {
			out = append(out, "duplicate option "+opt)
		}
		seen[opt] = true
		if opt == q.Answer {
			matched = true
		}
	}
	if len(q.Options) == 0 {
		out = append(out, "no options")
	} else if !matched {
		out = append(out, "answer matches no option")
	}
	return out
}
