package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLogLevel("info")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	require.True(t, SetLogLevel("warn"))
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestUnknownLevelKeepsCurrent(t *testing.T) {
	capture(t)
	require.True(t, SetLogLevel("Debug"))
	assert.False(t, SetLogLevel("verbose"))
	assert.Equal(t, LevelDebug, GetLogLevel())
}

func TestPlainMessageKeepsPercent(t *testing.T) {
	buf := capture(t)
	logMsg(LevelInfo, "100% done")
	Infof("%d%% of %s", 50, "files")
	assert.Contains(t, buf.String(), "100% done")
	assert.Contains(t, buf.String(), "50% of files")
	assert.NotContains(t, buf.String(), "MISSING")
}
