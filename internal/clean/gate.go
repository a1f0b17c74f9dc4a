package clean

import (
	"context"

	"github.com/macsweep/macsweep/internal/entry"
)

// Elevator performs privileged removals. The production implementation
// shells out to sudo and the macOS authorization dialog; tests inject a
// fake to observe prompt counts without touching the real system.
type Elevator interface {
	// TryNonInteractive removes path with elevated rights without any
	// user interaction, failing fast when no cached credential exists.
	TryNonInteractive(ctx context.Context, path string) error

	// PromptInteractive asks the user to authorize elevation once.
	// It returns false with a nil error when the user declines.
	PromptInteractive(ctx context.Context) (bool, error)

	// Remove deletes path using an authorization already obtained by
	// PromptInteractive.
	Remove(ctx context.Context, path string) error
}

type gateState int

const (
	gateUntried gateState = iota
	gateSudo
	gatePrompted
	gateCancelled
)

// gate serializes elevation for one deletion batch. The user is asked
// at most once per batch: a granted authorization is reused for every
// later path, and a declined one cancels all remaining elevated work.
type gate struct {
	state    gateState
	elevator Elevator
}

func (g *gate) remove(ctx context.Context, path string) error {
	switch g.state {
	case gateCancelled:
		return entry.ErrElevationCancelled
	case gatePrompted:
		return g.elevator.Remove(ctx, path)
	}

	// Untried, or the cached sudo credential may have expired: probe
	// the non-interactive path first, prompt only if it fails.
	if err := g.elevator.TryNonInteractive(ctx, path); err == nil {
		g.state = gateSudo
		return nil
	}

	granted, err := g.elevator.PromptInteractive(ctx)
	if err != nil {
		return err
	}
	if !granted {
		g.state = gateCancelled
		return entry.ErrElevationCancelled
	}
	g.state = gatePrompted
	return g.elevator.Remove(ctx, path)
}
