package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	assert.False(t, Enabled())
	Info(CatEngine, "dropped")
}

func TestTextOutputCarriesCategory(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Init(Options{Level: LevelDebug, Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	Debug(CatOperator, "change applied", "selections", 2)

	out := buf.String()
	assert.Contains(t, out, "cat=operator")
	assert.Contains(t, out, `msg="change applied"`)
	assert.Contains(t, out, "selections=2")
}

func TestMinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Init(Options{Level: LevelWarn, Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	Info(CatEngine, "quiet")
	assert.Empty(t, buf.String())

	SetMinLevel(LevelInfo)
	Info(CatEngine, "loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Init(Options{Level: LevelInfo, Format: "json", Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	ErrorErr(CatConfig, "reload failed", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "config", entry["cat"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestFileOutputAndCleanup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vimchange.log")
	cleanup, err := Init(Options{Level: LevelInfo, Path: path})
	require.NoError(t, err)

	Warn(CatScript, "slow script")
	cleanup()
	assert.False(t, Enabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slow script")
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	_, err := Init(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": LevelDebug, "": LevelInfo, "WARN": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
