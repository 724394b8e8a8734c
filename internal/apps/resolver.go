package apps

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "log/slog"

	"github.com/kballard/go-shellquote"
)

// LaunchMode selects how a stored command string becomes a process.
// It is an explicit configuration value, never inferred per call:
// shell mode hands the whole line to the platform shell, argv mode
// tokenizes it and execs directly.
type LaunchMode string

const (
	LaunchShell LaunchMode = "shell"
	LaunchArgv  LaunchMode = "argv"
)

// DefaultLaunchMode mirrors how the host OS family conventionally
// interprets launch commands; the config flag can override it.
func DefaultLaunchMode(goos string) LaunchMode {
	if goos == "windows" {
		return LaunchShell
	}
	return LaunchArgv
}

const (
	scanMaxDepth = 5
	scanBudget   = 2 * time.Second
)

// Resolver turns a spoken app name into a detached process. Strategies
// are tried in order: user mapping, builtin alias table, PATH lookup,
// bounded scan of well-known install directories.
type Resolver struct {
	mapping Mapping
	mode    LaunchMode
	goos    string

	scanRoots []string

	// spawn is swappable in tests so resolution can be exercised
	// without starting real processes.
	spawn func(command string) error
}

func NewResolver(mapping Mapping, mode LaunchMode) *Resolver {
	r := &Resolver{
		mapping:   mapping,
		mode:      mode,
		goos:      runtime.GOOS,
		scanRoots: defaultScanRoots(runtime.GOOS),
	}
	r.spawn = r.spawnDetached
	return r
}

// SetMapping swaps the live mapping after an add-app action.
func (r *Resolver) SetMapping(m Mapping) { r.mapping = m }

// Resolve issues a launch attempt for name and reports whether one
// was issued. True does not mean the app started, only that spawning
// raised no error. First matching strategy wins; a mapped name never
// falls through to the alias table or path search.
func (r *Resolver) Resolve(name string) bool {
	lname := strings.ToLower(strings.TrimSpace(name))
	if lname == "" {
		return false
	}

	if cmd, ok := r.mapping[lname]; ok {
		if err := r.spawn(cmd); err != nil {
			log.Error("Failed to launch mapped app", "name", lname, "cmd", cmd, "err", err)
			return false
		}
		log.Info("Launched mapped app", "name", lname, "cmd", cmd)
		return true
	}

	if cmd, ok := aliasCommand(lname, r.goos); ok {
		if err := r.spawn(cmd); err != nil {
			log.Warn("Builtin alias launch failed", "name", lname, "cmd", cmd, "err", err)
		} else {
			log.Info("Launched builtin alias", "name", lname, "cmd", cmd)
			return true
		}
	}

	if path, err := exec.LookPath(lname); err == nil {
		if err := r.spawn(QuoteCommand(path)); err != nil {
			log.Warn("PATH launch failed", "name", lname, "path", path, "err", err)
		} else {
			log.Info("Launched from PATH", "name", lname, "path", path)
			return true
		}
	}

	if cmd, ok := r.scanInstallDirs(lname); ok {
		if err := r.spawn(cmd); err != nil {
			log.Warn("Install dir launch failed", "name", lname, "cmd", cmd, "err", err)
		} else {
			log.Info("Launched from install dir", "name", lname, "cmd", cmd)
			return true
		}
	}

	log.Warn("No launch strategy matched", "name", lname)
	return false
}

func (r *Resolver) spawnDetached(command string) error {
	cmd, err := buildCommand(command, r.mode, r.goos)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	// reap in the background so the launch never blocks a handler
	go func() { _ = cmd.Wait() }()
	return nil
}

func buildCommand(command string, mode LaunchMode, goos string) (*exec.Cmd, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("empty launch command")
	}

	if mode == LaunchShell {
		if goos == "windows" {
			return exec.Command("cmd", "/c", command), nil
		}
		return exec.Command("sh", "-c", command), nil
	}

	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errors.New("empty launch command")
	}
	return exec.Command(argv[0], argv[1:]...), nil
}

func defaultScanRoots(goos string) []string {
	switch goos {
	case "windows":
		var roots []string
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if v := os.Getenv(env); v != "" {
				roots = append(roots, v)
			}
		}
		return roots
	case "darwin":
		return []string{"/Applications"}
	default:
		roots := []string{"/opt"}
		if home, err := os.UserHomeDir(); err == nil {
			roots = append(roots, filepath.Join(home, ".local", "bin"))
		}
		return roots
	}
}

// scanInstallDirs walks the well-known install roots looking for an
// executable whose base name matches lname, case-insensitively, and
// returns a ready launch command for the first hit. The walk is
// bounded by depth and a wall-clock budget so a huge install tree
// cannot stall a command.
func (r *Resolver) scanInstallDirs(lname string) (string, bool) {
	deadline := time.Now().Add(scanBudget)
	var found string

	for _, root := range r.scanRoots {
		if found != "" {
			break
		}

		rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, keep going
			}
			if time.Now().After(deadline) {
				return filepath.SkipAll
			}
			if d.IsDir() {
				depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
				if depth > scanMaxDepth {
					return filepath.SkipDir
				}
				if r.goos == "darwin" && matchesApp(path, lname) {
					found = path
					return filepath.SkipAll
				}
				return nil
			}
			if matchesExecutable(path, lname, r.goos) {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			log.Debug("Install dir scan aborted", "root", root, "err", err)
		}
	}

	if found == "" {
		return "", false
	}
	if r.goos == "darwin" {
		return "open -a " + QuoteCommand(found), true
	}
	// install roots routinely contain spaces, so the hit must stay one
	// word when shell mode hands it to cmd /c or sh -c
	return QuoteCommand(found), true
}

func matchesExecutable(path, lname, goos string) bool {
	base := filepath.Base(path)
	if goos == "windows" {
		return strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), lname) &&
			strings.EqualFold(filepath.Ext(base), ".exe")
	}
	if !strings.EqualFold(base, lname) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode()&0o111 != 0
}

func matchesApp(path, lname string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(base, lname+".app")
}
