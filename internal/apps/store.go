package apps

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	log "log/slog"

	"github.com/natefinch/atomic"
)

// Mapping associates a lowercase spoken name with the command that
// launches it. Values may carry arguments and are quoted when the
// target path contains spaces.
type Mapping map[string]string

// Store persists the user's app mappings as a flat JSON object.
// Read failures of any kind yield an empty mapping, write failures
// are logged and swallowed; the assistant must keep working without
// the file.
type Store struct {
	Path string
}

const storeFileName = ".voicekit_appmap.json"

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultStorePath places the mapping file in the user's home
// directory, falling back to the working directory when the home
// cannot be determined.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return storeFileName
	}
	return filepath.Join(home, storeFileName)
}

func (s *Store) Load() Mapping {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Failed to read app map", "path", s.Path, "err", err)
		}
		return Mapping{}
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warn("App map unparseable, starting empty", "path", s.Path, "err", err)
		return Mapping{}
	}
	if m == nil {
		m = Mapping{}
	}
	return m
}

func (s *Store) Save(m Mapping) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		log.Error("Failed to encode app map", "err", err)
		return
	}

	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		log.Error("Failed to save app map", "path", s.Path, "err", err)
	}
}

// QuoteCommand wraps a launch path in quotes when it contains spaces
// so shell-mode launches keep it as a single word.
func QuoteCommand(path string) string {
	if strings.Contains(path, " ") {
		return `"` + path + `"`
	}
	return path
}
