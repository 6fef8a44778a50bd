package store

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "storytimeline/internal/log"
	"storytimeline/internal/model"
)

const (
	defaultDateLayout     = "02/01/2006"
	defaultMaxOccurrences = 500

	// Non-standard properties a calendar author can set to attach media and
	// a quiz to a milestone.
	propImage        = "X-TIMELINE-IMAGE"
	propQuizQuestion = "X-TIMELINE-QUIZ-QUESTION"
	propQuizOption   = "X-TIMELINE-QUIZ-OPTION"
	propQuizAnswer   = "X-TIMELINE-QUIZ-ANSWER"
)

// ICSOptions controls how VEVENTs become timeline events.
type ICSOptions struct {
	// DateLayout formats the event start into Event.Date.
	DateLayout string

	// Location is the display timezone. If nil, time.Local is used.
	Location *time.Location

	// Until bounds RRULE expansion. If zero, time.Now() is used.
	Until time.Time

	// MaxOccurrences caps RRULE expansion per event.
	MaxOccurrences int
}

// parsedEvent is a VEVENT reduced to what the timeline needs.
type parsedEvent struct {
	UID      string
	Start    time.Time
	AllDay   bool
	RawRRule string
	ExDates  []time.Time
	Event    model.Event
}

// DecodeICS parses an iCalendar payload. Each VEVENT becomes one event;
// recurring VEVENTs (e.g. monthly anniversaries) become one event per
// occurrence between DTSTART and Until. The result is sorted by start.
func DecodeICS(body []byte, opts ICSOptions) ([]model.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmpty
	}
	if opts.DateLayout == "" {
		opts.DateLayout = defaultDateLayout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Until.IsZero() {
		opts.Until = time.Now()
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = defaultMaxOccurrences
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	out := make([]model.Event, 0)
	for _, comp := range cal.Events() {
		pe, perr := parseVEvent(comp)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Warn("ics vevent skipped", "err", perr)
			continue
		}
		out = append(out, expand(pe, opts)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("uid %q: dtstart: %w", out.UID, err)
	}
	out.Start = start

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if !strings.Contains(p.Value, "T") {
			out.AllDay = true
		}
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Event.Title = unescapeText(p.Value)
	}
	if out.Event.Title == "" {
		return out, fmt.Errorf("uid %q: missing SUMMARY", out.UID)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Event.Description = unescapeText(p.Value)
	}

	if p := ve.GetProperty(propImage); p != nil {
		out.Event.Image = strings.TrimSpace(p.Value)
	} else if p := ve.GetProperty("ATTACH"); p != nil {
		out.Event.Image = strings.TrimSpace(p.Value)
	}

	if q := ve.GetProperty(propQuizQuestion); q != nil {
		quiz := &model.Quiz{Question: unescapeText(q.Value)}
		for _, p := range ve.GetProperties(propQuizOption) {
			if v := unescapeText(p.Value); v != "" {
				quiz.Options = append(quiz.Options, v)
			}
		}
		if a := ve.GetProperty(propQuizAnswer); a != nil {
			quiz.Answer = unescapeText(a.Value)
		}
		out.Event.Quiz = quiz
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, start.Location()); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// expand turns a parsed VEVENT into one event per occurrence.
func expand(pe parsedEvent, opts ICSOptions) []model.Event {
	if pe.RawRRule == "" {
		return []model.Event{makeEvent(pe, pe.Start, opts)}
	}

	r, err := rrule.StrToRRule(pe.RawRRule)
	if err != nil {
		appLog.Warn("ics rrule ignored", "uid", pe.UID, "rrule", pe.RawRRule, "err", err)
		return []model.Event{makeEvent(pe, pe.Start, opts)}
	}
	r.DTStart(pe.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range pe.ExDates {
		set.ExDate(ex.In(pe.Start.Location()))
	}

	times := set.Between(pe.Start, opts.Until.In(pe.Start.Location()), true)
	if len(times) == 0 {
		return []model.Event{makeEvent(pe, pe.Start, opts)}
	}
	if len(times) > opts.MaxOccurrences {
		appLog.Error("ics occurrences truncated",
			errors.New("max occurrences reached"),
			"uid", pe.UID,
			"cap", opts.MaxOccurrences,
		)
		times = times[:opts.MaxOccurrences]
	}

	out := make([]model.Event, 0, len(times))
	for _, t := range times {
		out = append(out, makeEvent(pe, t, opts))
	}
	return out
}

func makeEvent(pe parsedEvent, start time.Time, opts ICSOptions) model.Event {
	ev := pe.Event
	if ev.Quiz != nil {
		q := *ev.Quiz
		q.Options = append([]string(nil), q.Options...)
		ev.Quiz = &q
	}
	local := start
	if !pe.AllDay {
		// All-day dates stay on their calendar day regardless of zone.
		local = start.In(opts.Location)
	}
	ev.Start = local
	ev.Date = local.Format(opts.DateLayout)
	return ev
}

// unescapeText reverses RFC 5545 TEXT escaping.
func unescapeText(v string) string {
	r := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return strings.TrimSpace(r.Replace(v))
}

// parseICSTime parses a basic ICS date/date-time string. Floating values
// are interpreted in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if loc == nil {
		loc = time.Local
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	// Date-only (all-day), e.g., 20250101
	return time.ParseInLocation("20060102", v, loc)
}
