package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	openai "github.com/openai/openai-go/v3"
)

// OpenAIEngine synthesizes speech through the OpenAI audio endpoint
// and plays the returned MP3 on the default output device.
type OpenAIEngine struct {
	client openai.Client
	voice  openai.AudioSpeechNewParamsVoice
}

// NewOpenAIEngine picks the requested voice when it is one the
// service knows, otherwise the default. Voice availability is
// best-effort; an unknown name is not an error.
func NewOpenAIEngine(client openai.Client, voice string) *OpenAIEngine {
	v := openai.AudioSpeechNewParamsVoiceOnyx
	switch voice {
	case "alloy":
		v = openai.AudioSpeechNewParamsVoiceAlloy
	case "echo":
		v = openai.AudioSpeechNewParamsVoiceEcho
	case "fable":
		v = openai.AudioSpeechNewParamsVoiceFable
	case "nova":
		v = openai.AudioSpeechNewParamsVoiceNova
	case "shimmer":
		v = openai.AudioSpeechNewParamsVoiceShimmer
	case "onyx", "":
	}
	return &OpenAIEngine{client: client, voice: v}
}

func (e *OpenAIEngine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	resp, err := e.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Voice:          e.voice,
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Body.Close()

	if err := playMP3(resp.Body); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	return nil
}

func (e *OpenAIEngine) Name() string { return "openai" }

func playMP3(r io.Reader) error {
	streamer, format, err := mp3.Decode(io.NopCloser(r))
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := initPlayback(); err != nil {
		return err
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(toPlaybackRate(format.SampleRate, streamer), beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
