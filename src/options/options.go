// Package options resolves "key=value" plot options into a validated Config.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iafilius/PersistencePlot/src/colormap"
)

// Backend selects the drawing library used for file output.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendGoChart Backend = "gochart"
	BackendGonum   Backend = "gonum"
)

// Config is the resolved set of rendering options.
type Config struct {
	Alpha        float64
	Title        string
	HasTitle     bool
	ColormapName string
	Colormap     colormap.Func
	FigSize      [2]float64 // inches
	LineWidth    float64
	Dual         bool
	Format       string
	DPI          float64
	Backend      Backend

	Save       bool
	OutputPath string
}

const (
	DefaultAlpha     = 0.5
	DefaultColormap  = "rainbow"
	DefaultFigSize   = "(5, 5)"
	DefaultLineWidth = 1.5
	DefaultFormat    = "eps"
	DefaultDPI       = 100
)

var (
	ErrUnknownOption     = errors.New("unknown plot option")
	ErrMalformedOption   = errors.New("plot option must be key=value")
	ErrInvalidBool       = errors.New("invalid boolean")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrOutOfRange        = errors.New("value out of range")
)

// Formats lists the accepted output image formats.
var Formats = []string{"png", "svg", "eps", "pdf", "jpg", "jpeg", "tif", "tiff"}

var truthy = []string{"1", "true", "True", "t", "T", "yes", "Yes", "y", "Y"}
var falsy = []string{"0", "false", "False", "f", "F", "no", "No", "n", "N"}

// ParseBool accepts the fixed truthy/falsy vocabulary only.
func ParseBool(s string) (bool, error) {
	for _, v := range truthy {
		if s == v {
			return true, nil
		}
	}
	for _, v := range falsy {
		if s == v {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, s)
}

// ParseFigSize reads "(w, h)"; parentheses are optional.
func ParseFigSize(s string) ([2]float64, error) {
	var out [2]float64
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "()"), ",")
	if len(parts) != 2 {
		return out, fmt.Errorf("figsize %q: want (width, height)", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("figsize %q: %w", s, err)
		}
		if v <= 0 {
			return out, fmt.Errorf("figsize %q: %w: sizes must be positive", s, ErrOutOfRange)
		}
		out[i] = v
	}
	return out, nil
}

// Split turns raw items into a key/value map. Later items override earlier ones.
func Split(raw []string) (map[string]string, error) {
	kv := make(map[string]string, len(raw))
	for _, item := range raw {
		k, v, ok := strings.Cut(item, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOption, item)
		}
		kv[k] = v
	}
	return kv, nil
}

// Resolve validates raw "key=value" items and fills defaults for absent keys.
// Errors name the offending key; nothing is deferred to render time.
func Resolve(raw []string) (Config, error) {
	kv, err := Split(raw)
	if err != nil {
		return Config{}, err
	}
	get := func(key, def string) string {
		if v, ok := kv[key]; ok {
			delete(kv, key)
			return v
		}
		return def
	}
	num := func(key string, def float64) (float64, error) {
		s := get(key, "")
		if s == "" {
			return def, nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", key, err)
		}
		return v, nil
	}

	var cfg Config
	if cfg.Alpha, err = num("alpha", DefaultAlpha); err != nil {
		return Config{}, err
	}
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return Config{}, fmt.Errorf("option alpha: %w: %v not in [0,1]", ErrOutOfRange, cfg.Alpha)
	}
	if title, ok := kv["title"]; ok {
		cfg.Title, cfg.HasTitle = title, true
		delete(kv, "title")
	}
	cfg.ColormapName = get("cmap", DefaultColormap)
	if cfg.Colormap, err = colormap.Lookup(cfg.ColormapName); err != nil {
		return Config{}, fmt.Errorf("option cmap: %w", err)
	}
	if cfg.FigSize, err = ParseFigSize(get("figsize", DefaultFigSize)); err != nil {
		return Config{}, fmt.Errorf("option figsize: %w", err)
	}
	if cfg.LineWidth, err = num("linewidth", DefaultLineWidth); err != nil {
		return Config{}, err
	}
	if cfg.LineWidth <= 0 {
		return Config{}, fmt.Errorf("option linewidth: %w: must be positive", ErrOutOfRange)
	}
	if cfg.Dual, err = ParseBool(get("dual", "True")); err != nil {
		return Config{}, fmt.Errorf("option dual: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(get("format", DefaultFormat)))
	if !supported(cfg.Format) {
		return Config{}, fmt.Errorf("option format: %w: %q (want one of %s)", ErrUnsupportedFormat, cfg.Format, strings.Join(Formats, ", "))
	}
	if cfg.DPI, err = num("dpi", DefaultDPI); err != nil {
		return Config{}, err
	}
	if cfg.DPI <= 0 {
		return Config{}, fmt.Errorf("option dpi: %w: must be positive", ErrOutOfRange)
	}
	switch b := Backend(strings.ToLower(get("backend", string(BackendAuto)))); b {
	case BackendAuto, BackendGoChart, BackendGonum:
		cfg.Backend = b
	default:
		return Config{}, fmt.Errorf("option backend: %w: %q", ErrUnknownOption, b)
	}

	if len(kv) > 0 {
		unknown := make([]string, 0, len(kv))
		for k := range kv {
			unknown = append(unknown, k)
		}
		sort.Strings(unknown)
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(unknown, ", "))
	}
	return cfg, nil
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// TitleSuffix returns " for <title>" when a title was supplied.
func (c Config) TitleSuffix() string {
	if !c.HasTitle {
		return ""
	}
	return " for " + c.Title
}
