package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silt.log")
	Init("debug", path)
	defer Init("info", "")

	Log.Info("hello from test")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, parseLevel("info"), parseLevel("nonsense"))
	assert.NotEqual(t, parseLevel("debug"), parseLevel("error"))
}
