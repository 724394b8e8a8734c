package apps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appmap.json")
	s := NewStore(path)

	m := Mapping{
		"ide":      "mytool --open",
		"browser":  `"/opt/My Browser/browser"`,
		"terminal": "alacritty",
	}
	s.Save(m)

	got := NewStore(path).Load()
	assert.Equal(t, m, got)
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.json"))
	m := s.Load()
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appmap.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := NewStore(path).Load()
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appmap.json")
	s := NewStore(path)

	s.Save(Mapping{"a": "1"})
	s.Save(Mapping{"b": "2"})

	got := s.Load()
	assert.Equal(t, Mapping{"b": "2"}, got)
}

func TestQuoteCommand(t *testing.T) {
	assert.Equal(t, "/usr/bin/tool", QuoteCommand("/usr/bin/tool"))
	assert.Equal(t, `"/opt/My Tool/tool"`, QuoteCommand("/opt/My Tool/tool"))
}
