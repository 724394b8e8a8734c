package apps

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	log "log/slog"
)

// OpenURL hands a URL to the platform's default browser. The spawned
// process is detached; only spawn errors are reported.
func OpenURL(url string) error {
	return openWithDefault(url)
}

// ErrNoMusicDir reports that the user has no Music folder; callers
// phrase that differently from a launch failure.
var ErrNoMusicDir = errors.New("music folder not found")

// OpenMusicDir opens the user's Music folder in the file manager.
func OpenMusicDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, "Music")
	if _, err := os.Stat(dir); err != nil {
		return ErrNoMusicDir
	}
	return openWithDefault(dir)
}

func openWithDefault(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to open with system handler", "target", target, "err", err)
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
