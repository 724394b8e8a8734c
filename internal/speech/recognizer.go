// Package speech adapts microphone capture plus the cloud
// transcription service into a single listen-once call.
package speech

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"

	"voicekit/internal/audio"
	"voicekit/pkg/wavenc"
)

const (
	DefaultTimeout     = 6 * time.Second
	DefaultPhraseLimit = 8 * time.Second
)

// Capturer records one utterance worth of PCM from the microphone.
type Capturer interface {
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error)
}

// Transcriber sends a WAV payload to a recognition service.
type Transcriber interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

// Recognizer is the speech input adapter. Every failure mode is
// non-fatal: timeouts, unintelligible audio and service errors all
// come back as ("", false) with a distinct log line.
type Recognizer struct {
	mic         Capturer
	stt         Transcriber
	timeout     time.Duration
	phraseLimit time.Duration
}

func NewRecognizer(mic Capturer, stt Transcriber) *Recognizer {
	return &Recognizer{
		mic:         mic,
		stt:         stt,
		timeout:     DefaultTimeout,
		phraseLimit: DefaultPhraseLimit,
	}
}

// ListenOnce captures a single utterance and returns the recognized
// text. The bool reports whether anything usable was recognized; the
// call never returns an error to its caller.
func (r *Recognizer) ListenOnce(ctx context.Context) (string, bool) {
	pcm, err := r.mic.Capture(ctx, r.timeout, r.phraseLimit)
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrNoSpeech):
			log.Info("Timeout waiting for speech")
		case errors.Is(err, context.Canceled):
			log.Debug("Listen cancelled")
		default:
			log.Error("Microphone capture failed", "err", err)
		}
		return "", false
	}

	data, err := wavenc.EncodePCM16k(pcm)
	if err != nil {
		log.Error("Failed to encode capture", "err", err)
		return "", false
	}

	text, err := r.stt.Transcribe(ctx, data)
	if err != nil {
		log.Error("Recognition request failed", "err", err)
		return "", false
	}
	if text == "" {
		log.Info("Could not understand audio")
		return "", false
	}

	log.Info("Recognized", "text", text)
	return text, true
}

// OpenAITranscriber uploads captures to the OpenAI transcription
// endpoint.
type OpenAITranscriber struct {
	client openai.Client
}

func NewOpenAITranscriber(client openai.Client) *OpenAITranscriber {
	return &OpenAITranscriber{client: client}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(wavData), "capture.wav", "audio/wav"),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
