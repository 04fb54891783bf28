package logging

import "context"

type contextKey string

const deckKey contextKey = "deck"

// WithDeck adds the presented deck name to the context.
func WithDeck(ctx context.Context, deck string) context.Context {
	return context.WithValue(ctx, deckKey, deck)
}

// GetDeck retrieves the deck name from the context.
// Returns empty string if not present.
func GetDeck(ctx context.Context) string {
	if name, ok := ctx.Value(deckKey).(string); ok {
		return name
	}
	return ""
}
