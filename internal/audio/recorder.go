package audio

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms at 16kHz

	calibrationWindow = 600 * time.Millisecond
	trailingSilence   = 600 * time.Millisecond
	frameDuration     = 20 * time.Millisecond

	// floor for the speech threshold; calibration can only raise it
	minSpeechRMS = 0.015
)

// ErrNoSpeech reports that the onset timeout elapsed without the
// microphone picking up anything above the ambient level.
var ErrNoSpeech = errors.New("no speech detected before timeout")

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Capture opens the default input device, samples the ambient noise
// level for a short calibration window, then waits up to timeout for
// speech to start and records until ~600ms of trailing silence or
// phraseLimit, whichever comes first. Returns mono float32 PCM at
// 16kHz. Cancelling ctx aborts the capture between frames.
func (r *Recorder) Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	readFrame := func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return stream.Read()
	}

	// ambient noise calibration: the speech threshold sits above
	// whatever the room is doing right now
	var ambient float64
	calFrames := int(calibrationWindow / frameDuration)
	for i := 0; i < calFrames; i++ {
		if err := readFrame(); err != nil {
			return nil, err
		}
		ambient += frameRMS(buf)
	}
	ambient /= float64(calFrames)

	threshold := ambient * 2
	if threshold < minSpeechRMS {
		threshold = minSpeechRMS
	}

	// wait for speech onset
	onsetFrames := int(timeout / frameDuration)
	started := false
	for i := 0; i < onsetFrames; i++ {
		if err := readFrame(); err != nil {
			return nil, err
		}
		if frameRMS(buf) > threshold {
			started = true
			break
		}
	}
	if !started {
		return nil, ErrNoSpeech
	}

	out := make([]float32, 0, sampleRate*3)
	out = append(out, buf...)

	maxFrames := int(phraseLimit / frameDuration)
	silenceLimit := int(trailingSilence / frameDuration)
	silenceFrames := 0

	for i := 1; i < maxFrames; i++ {
		if err := readFrame(); err != nil {
			return nil, err
		}
		out = append(out, buf...)

		if frameRMS(buf) > threshold {
			silenceFrames = 0
			continue
		}
		silenceFrames++
		if silenceFrames >= silenceLimit {
			break
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
