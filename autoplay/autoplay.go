// Package autoplay drives battles on a fixed cadence while the player's
// auto-play setting is on.
package autoplay

import (
	"context"
	"fmt"
	"time"

	"github.com/nathoo/towercore/types"
)

// Engine is the part of the engine auto-play needs.
type Engine interface {
	Snapshot() *types.State
	ManualAttack() types.Result
}

// Run calls ManualAttack every interval while auto-play is enabled, passing
// each result to onResult. It returns when ctx is cancelled. Ticks that find
// auto-play off or the tower unopened do nothing.
func Run(ctx context.Context, eng Engine, interval time.Duration, onResult func(types.Result)) error {
	if interval <= 0 {
		return fmt.Errorf("auto-play interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if res, ok := Tick(eng); ok && onResult != nil {
				onResult(res)
			}
		}
	}
}

// Tick performs one auto-play step if the setting is on.
func Tick(eng Engine) (types.Result, bool) {
	s := eng.Snapshot()
	if !s.Initialized || !s.UI.AutoPlay {
		return types.Result{}, false
	}
	return eng.ManualAttack(), true
}
