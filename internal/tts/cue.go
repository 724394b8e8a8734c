package tts

import (
	"time"

	log "log/slog"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
)

// Cue plays a short tone on the default output so the user knows the
// microphone just opened. Best-effort: failures are logged only. The
// tone is generated at the shared device rate so it can mix with an
// utterance already playing instead of resetting the device.
func Cue() {
	tone, err := generators.SinTone(playbackRate, 880)
	if err != nil {
		log.Debug("Listen cue unavailable", "err", err)
		return
	}

	if err := initPlayback(); err != nil {
		log.Debug("Listen cue unavailable", "err", err)
		return
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(beep.Take(playbackRate.N(120*time.Millisecond), tone), beep.Callback(func() {
		close(done)
	})))
	<-done
}
