package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCommand(t *testing.T) {
	in := writeInput(t, t.TempDir(), "iris.out", javaplexSample)
	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"summary", in}, noShow(t)))

	s := out.String()
	for _, want := range []string{"dim", "finite", "infinite", "total", "max_dim=1"} {
		assert.Contains(t, s, want)
	}
	// header, two dimension rows, footer
	var rows int
	for _, line := range strings.Split(s, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == '│' || r == '|' || r == ' ' })
		if len(fields) == 4 && (fields[0] == "0" || fields[0] == "1") {
			rows++
		}
	}
	assert.Equal(t, 2, rows)
	assert.Contains(t, s, "max_val=0.99")
}

func TestSummaryRejectsBadFormat(t *testing.T) {
	in := writeInput(t, t.TempDir(), "iris.out", javaplexSample)
	assert.Error(t, run(&bytes.Buffer{}, []string{"summary", "-f", "q", in}, noShow(t)))
}
