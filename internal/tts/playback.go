package tts

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// The output device is initialized once at a fixed rate. Re-running
// speaker.Init mid-playback resets the device and cuts whatever is
// playing, so every stream is resampled to this rate instead.
const playbackRate = beep.SampleRate(44100)

var (
	playbackOnce sync.Once
	playbackErr  error
)

func initPlayback() error {
	playbackOnce.Do(func() {
		playbackErr = speaker.Init(playbackRate, playbackRate.N(time.Second/10))
	})
	return playbackErr
}

// toPlaybackRate adapts a stream to the device rate.
func toPlaybackRate(sr beep.SampleRate, s beep.Streamer) beep.Streamer {
	if sr == playbackRate {
		return s
	}
	return beep.Resample(4, sr, playbackRate, s)
}
