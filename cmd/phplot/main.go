// Command phplot draws barcodes and persistence diagrams from interval files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iafilius/PersistencePlot/src/intervals"
	"github.com/iafilius/PersistencePlot/src/logging"
	"github.com/iafilius/PersistencePlot/src/options"
	"github.com/iafilius/PersistencePlot/src/render"
)

// bareOutput marks -o given without a value.
const bareOutput = "\x00input"

var errDetachedOutput = errors.New("the --output path must be attached to the flag")

// showFunc displays preview images and blocks until the window closes.
type showFunc func(title string, imgs []render.PreviewImage)

type plotFlags struct {
	format      string
	output      string
	plot        string
	noshow      bool
	plotOptions []string
	optionsFile string
	logLevel    string
}

func main() {
	if err := run(os.Stdout, os.Args[1:], showPreview); err != nil {
		fmt.Fprintln(os.Stderr, "phplot:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string, show showFunc) error {
	root := newRootCmd(out, show)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(out io.Writer, show showFunc) *cobra.Command {
	var fl plotFlags
	root := &cobra.Command{
		Use:   "phplot [flags] <intervals> [key=value ...]",
		Short: "Plot persistence barcodes and diagrams",
		Long: `phplot reads a persistence interval file and draws its barcode and
persistence diagram. Plot options (alpha, title, cmap, figsize, linewidth,
dual, format, dpi, backend) are given with -O or as trailing key=value args.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !logging.SetLogLevel(fl.logLevel) {
				return fmt.Errorf("unknown log level %q", fl.logLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(out, fl, cmd.Flags().Changed("output"), args, show)
		},
	}
	root.SetOut(out)

	f := root.Flags()
	f.StringVarP(&fl.format, "format", "f", "j", "interval file format: s (simple) or j (javaplex)")
	f.StringVarP(&fl.output, "output", "o", "", "save the figures; a file base or directory must be attached as -o=PATH or --output=PATH")
	f.Lookup("output").NoOptDefVal = bareOutput
	f.StringVarP(&fl.plot, "plot", "p", "bd", "charts to draw: b (barcode), d (diagram) or bd (both)")
	f.BoolVarP(&fl.noshow, "noshow", "n", false, "do not open the preview window; implies --output")
	f.StringArrayVarP(&fl.plotOptions, "plot-options", "O", nil, "plot option key=value (repeatable)")
	f.StringVar(&fl.optionsFile, "options-file", "", "YAML file of plot options; command-line options win")
	root.PersistentFlags().StringVar(&fl.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newSummaryCmd(out, &fl), newGalleryCmd(out, &fl))
	return root
}

func runPlot(out io.Writer, fl plotFlags, outputSet bool, args []string, show showFunc) error {
	if outputSet && fl.output == bareOutput && len(args) > 1 && !strings.Contains(args[1], "=") {
		return fmt.Errorf("%w: use -o=%s %s (or --output=%s)", errDetachedOutput, args[0], args[1], args[0])
	}
	input := args[0]
	format, err := intervals.ParseFormat(fl.format)
	if err != nil {
		return err
	}
	sel, err := render.ParseSelection(fl.plot)
	if err != nil {
		return err
	}

	var raw []string
	if fl.optionsFile != "" {
		if raw, err = options.LoadFile(fl.optionsFile); err != nil {
			return fmt.Errorf("options file: %w", err)
		}
	}
	raw = append(raw, fl.plotOptions...)
	raw = append(raw, args[1:]...)
	cfg, err := options.Resolve(raw)
	if err != nil {
		return err
	}

	base, save, err := resolveOutputBase(input, fl.output, outputSet, fl.noshow)
	if err != nil {
		return err
	}
	cfg.Save, cfg.OutputPath = save, base

	c, err := intervals.ParseFile(expandHome(input), format)
	if err != nil {
		return err
	}
	in, err := render.NewInput(c)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	logging.Debugf("%d intervals, max_dim=%d max_val=%g", len(c), in.Dataset.MaxDim, in.Dataset.MaxVal)

	if cfg.Save {
		figs, err := render.Render(in, cfg, sel)
		if err != nil {
			return err
		}
		paths, err := render.Save(figs, cfg.OutputPath)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
	}

	if !fl.noshow && show != nil {
		imgs, err := render.Preview(in, cfg, sel, filepath.Base(input))
		if err != nil {
			return err
		}
		show("phplot - "+filepath.Base(input), imgs)
	}
	return nil
}
