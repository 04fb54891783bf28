package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the deck name from the event context.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if deck := GetDeck(ctx); deck != "" {
		e.Str("deck", deck)
	}
}
