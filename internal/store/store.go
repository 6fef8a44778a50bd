// Package store holds the ordered, immutable list of timeline events and
// the loaders that build it from JSON, YAML or iCalendar sources.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	appLog "storytimeline/internal/log"
	"storytimeline/internal/model"
)

var (
	ErrEmpty             = errors.New("event list is empty")
	ErrIndexOutOfRange   = errors.New("event index out of range")
	ErrUnsupportedFormat = errors.New("unsupported event source format")
)

// Store is an ordered, read-only sequence of events. It always holds at
// least one event.
type Store struct {
	events []model.Event
}

// New copies events into a Store. It returns ErrEmpty for an empty list.
func New(events []model.Event) (*Store, error) {
	if len(events) == 0 {
		return nil, ErrEmpty
	}
	cp := make([]model.Event, len(events))
	copy(cp, events)
	return &Store{events: cp}, nil
}

// Len returns the number of events.
func (s *Store) Len() int {
	return len(s.events)
}

// At returns the event at index i.
func (s *Store) At(i int) (model.Event, error) {
	if i < 0 || i >= len(s.events) {
		return model.Event{}, fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, i, len(s.events)-1)
	}
	return s.events[i], nil
}

// All returns a copy of every event in order.
func (s *Store) All() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Options tunes how sources are loaded.
type Options struct {
	// CacheDir stores remote sources for offline fallback.
	CacheDir string

	// DateLayout, Location, Until and MaxOccurrences only apply to
	// iCalendar sources.
	DateLayout     string
	Location       *time.Location
	Until          time.Time
	MaxOccurrences int
}

// Load reads the source (local path or http(s) URL), decodes it according
// to its extension and returns the resulting Store.
func Load(ctx context.Context, src string, opts Options) (*Store, error) {
	if src == "" {
		return nil, errors.New("event source is empty")
	}

	format, err := formatOf(src)
	if err != nil {
		return nil, err
	}

	var body []byte
	if isRemote(src) {
		res, err := NewFetcher(opts.CacheDir).FetchOne(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch events: %w", err)
		}
		body = res.Body
	} else {
		body, err = os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
	}

	var events []model.Event
	switch format {
	case "json":
		events, err = DecodeJSON(body)
	case "yaml":
		events, err = DecodeYAML(body)
	case "ics":
		events, err = DecodeICS(body, ICSOptions{
			DateLayout:     opts.DateLayout,
			Location:       opts.Location,
			Until:          opts.Until,
			MaxOccurrences: opts.MaxOccurrences,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s events: %w", format, err)
	}

	warnQuizProblems(events)

	st, err := New(events)
	if err != nil {
		return nil, err
	}
	appLog.Info("events loaded", "source", redactURL(src), "format", format, "count", st.Len())
	return st, nil
}

// warnQuizProblems logs quiz data issues without rejecting the event.
func warnQuizProblems(events []model.Event) {
	for i, ev := range events {
		if ev.Quiz == nil {
			continue
		}
		for _, p := range ev.Quiz.Problems() {
			appLog.Warn("event quiz data problem", "index", i, "title", ev.Title, "problem", p)
		}
	}
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func formatOf(src string) (string, error) {
	p := src
	if isRemote(src) {
		u, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("parse source url: %w", err)
		}
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".ics", ".ical":
		return "ics", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path.Ext(p))
	}
}
