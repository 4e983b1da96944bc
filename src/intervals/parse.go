package intervals

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/iafilius/PersistencePlot/src/logging"
)

// Format selects an input parser.
type Format int

const (
	// SimpleFormat is one whitespace separated "dim birth death" triple per line.
	SimpleFormat Format = iota
	// ToolExportFormat is the javaplex barcode dump.
	ToolExportFormat
)

func (f Format) String() string {
	switch f {
	case SimpleFormat:
		return "simple"
	case ToolExportFormat:
		return "tool-export"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var (
	ErrUnknownFormat = errors.New("unknown interval format")
	// ErrNoDimension is wrapped when a tool-export data line precedes every Dimension header.
	ErrNoDimension = errors.New("interval before any Dimension header")
	// ErrEndpoint is wrapped when a birth is negative or not finite, or a death is negative.
	ErrEndpoint = errors.New("invalid interval endpoint")
	errShape    = errors.New("line does not have the expected shape")
)

// ParseFormat maps a CLI selector to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "simple":
		return SimpleFormat, nil
	case "j", "javaplex", "tool-export":
		return ToolExportFormat, nil
	}
	return 0, fmt.Errorf("%w: %q (want s or j)", ErrUnknownFormat, s)
}

// ParseError describes the offending input line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads path in the given format and returns a sorted collection.
func ParseFile(path string, format Format) (Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debugf("parsed %d intervals from %s (%s format)", len(c), path, format)
	return c, nil
}

// Parse reads intervals from r. The result is sorted; any malformed line aborts the parse.
func Parse(r io.Reader, format Format) (Collection, error) {
	var (
		c   Collection
		err error
	)
	switch format {
	case SimpleFormat:
		c, err = parseSimple(r)
	case ToolExportFormat:
		c, err = parseToolExport(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	c.Sort()
	return c, nil
}

func parseSimple(r io.Reader) (Collection, error) {
	var out Collection
	dropped := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, &ParseError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: want 3 fields, got %d", errShape, len(fields))}
		}
		dim, err := parseDim(fields[0])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		birth, err := parseValue(fields[1])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		death, err := parseValue(fields[2])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		if err := checkEndpoints(birth, death); err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		if birth == death {
			dropped++
			continue
		}
		out = append(out, Record{Dim: dim, Birth: birth, Death: death})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if dropped > 0 {
		logging.Debugf("dropped %d degenerate intervals", dropped)
	}
	return out, nil
}

func parseToolExport(r io.Reader) (Collection, error) {
	var out Collection
	dim := -1
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "Dimension"); ok {
			rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
			d, err := parseDim(rest)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			dim = d
			continue
		}
		if dim < 0 {
			return nil, &ParseError{Line: lineNo, Text: line, Err: ErrNoDimension}
		}
		birth, death, err := parsePair(trimmed)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		if err := checkEndpoints(birth, death); err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		out = append(out, Record{Dim: dim, Birth: birth, Death: death})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parsePair reads "[b, d)" with any of []() as delimiters.
func parsePair(s string) (float64, float64, error) {
	body := strings.Trim(s, "[]()")
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: want a bracketed pair", errShape)
	}
	birth, err := parseValue(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	death, err := parseValue(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return birth, death, nil
}

func parseDim(s string) (int, error) {
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative dimension %d", d)
	}
	return d, nil
}

// parseValue accepts finite numbers and the strconv spellings of infinity ("inf", "infinity").
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN is not a valid interval endpoint")
	}
	return v, nil
}

// checkEndpoints enforces birth in [0, +Inf) and death in [0, +Inf].
func checkEndpoints(birth, death float64) error {
	if math.IsInf(birth, 0) || birth < 0 {
		return fmt.Errorf("%w: birth %v must be finite and non-negative", ErrEndpoint, birth)
	}
	if death < 0 {
		return fmt.Errorf("%w: death %v must be non-negative or inf", ErrEndpoint, death)
	}
	return nil
}
