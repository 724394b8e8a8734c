package tts

import (
	"context"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// SystemEngine shells out to the platform speech command: say on
// macOS, espeak-ng elsewhere.
type SystemEngine struct {
	command string
	voice   string
	rate    int
}

func systemCommand(goos string) string {
	if goos == "darwin" {
		return "say"
	}
	return "espeak-ng"
}

// NewSystemEngine resolves the platform speech binary; an error means
// none is installed and the caller should fall back to NoopEngine.
func NewSystemEngine(voice string, rate int) (*SystemEngine, error) {
	resolved, err := exec.LookPath(systemCommand(runtime.GOOS))
	if err != nil {
		return nil, err
	}
	return &SystemEngine{command: resolved, voice: voice, rate: rate}, nil
}

func (s *SystemEngine) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	args := speakArgs(s.command, s.voice, s.rate, text)
	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

func (s *SystemEngine) Name() string { return "system:" + s.command }

func speakArgs(command, voice string, rate int, text string) []string {
	var args []string
	if voice != "" {
		args = append(args, "-v", voice)
	}
	if rate > 0 {
		if strings.HasSuffix(command, "say") {
			args = append(args, "-r", strconv.Itoa(rate))
		} else {
			args = append(args, "-s", strconv.Itoa(rate))
		}
	}
	return append(args, text)
}
