// Package autoplay advances the slideshow on a cron schedule (kiosk mode).
package autoplay

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "storytimeline/internal/log"
	"storytimeline/internal/slideshow"
)

// Stepper is the part of the deck autoplay drives.
type Stepper interface {
	Next() bool
	Home() bool
	State() slideshow.State
}

// Player advances a Stepper on every cron tick.
type Player struct {
	spec string
	deck Stepper
	loop bool
	cron *cron.Cron
}

// New validates spec (standard 5-field cron or a descriptor such as
// "@every 15s") and returns a stopped player.
func New(spec string, deck Stepper, loop bool) (*Player, error) {
	c := cron.New(cron.WithLocation(time.Local))
	p := &Player{spec: spec, deck: deck, loop: loop, cron: c}
	if _, err := c.AddFunc(spec, func() { p.Tick() }); err != nil {
		return nil, fmt.Errorf("autoplay: invalid schedule %q: %w", spec, err)
	}
	return p, nil
}

// Tick performs one step: Next, or Home after the last event when looping.
// It reports whether a transition was started.
func (p *Player) Tick() bool {
	st := p.deck.State()
	if st.Transitioning {
		appLog.Debug("autoplay tick skipped; transition pending", "index", st.Index)
		return false
	}
	if st.Index >= st.Total-1 {
		if !p.loop {
			return false
		}
		return p.deck.Home()
	}
	return p.deck.Next()
}

// Run starts the scheduler and blocks until ctx is canceled.
func (p *Player) Run(ctx context.Context) {
	p.cron.Start()
	appLog.Info("autoplay started", "schedule", p.spec, "loop", p.loop)

	<-ctx.Done()

	// Wait for a running tick to finish.
	<-p.cron.Stop().Done()
	appLog.Info("autoplay stopped")
}
