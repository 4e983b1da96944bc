package main

import (
	"os"
	"path/filepath"
	"strings"
)

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// realPath is the absolute, symlink-resolved form of p. Paths that do not
// exist yet are returned absolute.
func realPath(p string) (string, error) {
	abs, err := filepath.Abs(expandHome(p))
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// resolveOutputBase decides whether figures are saved and the path base they
// are written under. The format suffix is appended later.
//
//	no -o, no -n    nothing saved
//	no -o, -n       saved next to the input
//	-o              saved next to the input
//	-o=DIR          DIR/<input file name>
//	-o=PATH         PATH
func resolveOutputBase(input, output string, outputSet, noshow bool) (string, bool, error) {
	if !outputSet {
		if !noshow {
			return "", false, nil
		}
		output = bareOutput
	}
	if output == bareOutput || output == "" {
		p, err := realPath(input)
		return p, true, err
	}
	if st, err := os.Stat(expandHome(output)); err == nil && st.IsDir() {
		p, err := realPath(filepath.Join(expandHome(output), filepath.Base(input)))
		return p, true, err
	}
	p, err := realPath(output)
	return p, true, err
}
