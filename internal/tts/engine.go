// Package tts is the speech output adapter: a synthesis engine
// behind a non-blocking queue.
package tts

import (
	"context"

	log "log/slog"
)

// Engine turns text into audible speech. Implementations block until
// playback finishes; the Speaker queue keeps that off the caller.
type Engine interface {
	Speak(ctx context.Context, text string) error
	Name() string
}

// NoopEngine is the degraded mode when no synthesis engine is
// available: it only logs the text that would have been spoken.
type NoopEngine struct{}

func (NoopEngine) Speak(_ context.Context, text string) error {
	log.Info("TTS unavailable", "text", text)
	return nil
}

func (NoopEngine) Name() string { return "noop" }
