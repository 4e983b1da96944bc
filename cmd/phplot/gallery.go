package main

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iafilius/PersistencePlot/src/colormap"
	"github.com/iafilius/PersistencePlot/src/intervals"
	"github.com/iafilius/PersistencePlot/src/logging"
	"github.com/iafilius/PersistencePlot/src/options"
	"github.com/iafilius/PersistencePlot/src/render"
)

func newGalleryCmd(out io.Writer, fl *plotFlags) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "gallery [flags] <intervals> [key=value ...]",
		Short: "Render the input once per colour map as PNGs, without a window",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := intervals.ParseFormat(fl.format)
			if err != nil {
				return err
			}
			sel, err := render.ParseSelection(fl.plot)
			if err != nil {
				return err
			}
			c, err := intervals.ParseFile(expandHome(args[0]), format)
			if err != nil {
				return err
			}
			in, err := render.NewInput(c)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			paths, err := runGallery(in, sel, args[1:], expandHome(outDir))
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&fl.format, "format", "f", "j", "interval file format: s (simple) or j (javaplex)")
	f.StringVarP(&fl.plot, "plot", "p", "bd", "charts to draw: b (barcode), d (diagram) or bd (both)")
	f.StringVar(&outDir, "out", "gallery", "directory for the PNG files")
	return cmd
}

// runGallery writes <outDir>/<cmap>.png for every registered colour map. The
// preview images are used so titles, legends and the dual layout match the
// window.
func runGallery(in render.Input, sel render.Selection, raw []string, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	var paths []string
	for _, name := range colormap.Names() {
		cfg, err := options.Resolve(append(append([]string{}, raw...), "cmap="+name, "dual=yes"))
		if err != nil {
			return paths, err
		}
		imgs, err := render.Preview(in, cfg, sel, name)
		if err != nil {
			return paths, fmt.Errorf("cmap %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, imgs[0].Image); err != nil {
			return paths, fmt.Errorf("png encode %s: %w", name, err)
		}
		p := filepath.Join(outDir, name+".png")
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	logging.Infof("gallery: %d colour maps written to %s", len(paths), outDir)
	return paths, nil
}
