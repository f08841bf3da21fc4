// -- cmd/inspect.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domlens/domlens-cli/api/schemas"
	"github.com/domlens/domlens-cli/internal/inspector"
	"github.com/domlens/domlens-cli/internal/observability"
	"github.com/domlens/domlens-cli/internal/render"
	"github.com/domlens/domlens-cli/internal/store"
	"github.com/domlens/domlens-cli/internal/watch"
)

type inspectOptions struct {
	format         string
	out            string
	save           bool
	restore        bool
	watch          bool
	viewportWidth  float64
	viewportHeight float64
	mediaType      string
}

func newInspectCommand(a *app) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [html-file [css-file]]",
		Short: "Build the annotated tree for an HTML/CSS pair.",
		Long: `Inspect parses the given HTML and CSS, matches the style rules against
every element, and prints a structural tree annotated with per-element
layout summaries.

Pass "-" as the html-file to read markup from stdin. With --restore the
previously saved buffers are used and no file arguments are accepted.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "tree", "output format: tree, json or xml")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the input buffers for later --restore")
	cmd.Flags().BoolVar(&opts.restore, "restore", false, "build from the previously saved buffers")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild whenever an input file changes")
	cmd.Flags().Float64Var(&opts.viewportWidth, "viewport-width", 0, "viewport width in px for media query evaluation")
	cmd.Flags().Float64Var(&opts.viewportHeight, "viewport-height", 0, "viewport height in px for media query evaluation")
	cmd.Flags().StringVar(&opts.mediaType, "media-type", "", "media type for media query evaluation (screen, print, ...)")

	return cmd
}

func runInspect(cmd *cobra.Command, a *app, opts *inspectOptions, args []string) error {
	logger := observability.GetLogger()

	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	a.cfg.SetInspectorViewport(opts.viewportWidth, opts.viewportHeight)
	a.cfg.SetInspectorMediaType(opts.mediaType)

	if opts.restore && len(args) > 0 {
		return errors.New("--restore takes no file arguments")
	}
	if opts.restore && opts.watch {
		return errors.New("--watch needs file arguments and cannot be combined with --restore")
	}
	if !opts.restore && len(args) == 0 {
		return errors.New("an html-file argument is required (or use --restore)")
	}

	htmlSrc, cssSrc, err := resolveInputs(cmd.InOrStdin(), a, opts, args)
	if err != nil {
		return err
	}

	builder := inspector.New(a.cfg.Inspector(), logger)

	runOnce := func(ctx context.Context, htmlSrc, cssSrc string) error {
		res, err := builder.Generate(ctx, htmlSrc, cssSrc)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), opts.out, res, format)
	}

	if err := runOnce(cmd.Context(), htmlSrc, cssSrc); err != nil {
		return err
	}

	if opts.save {
		st, err := store.Open(a.cfg.Store().Dir)
		if err != nil {
			return err
		}
		if err := st.SavePair(htmlSrc, cssSrc); err != nil {
			return err
		}
		logger.Info("Buffers saved", zap.String("dir", st.Dir()))
	}

	if !opts.watch {
		return nil
	}
	return runWatch(cmd, a, args, runOnce)
}

// runWatch rebuilds on every change to the input files until interrupted.
func runWatch(cmd *cobra.Command, a *app, args []string, runOnce func(ctx context.Context, htmlSrc, cssSrc string) error) error {
	logger := observability.GetLogger()

	for _, arg := range args {
		if arg == "-" {
			return errors.New("--watch cannot be combined with stdin input")
		}
	}

	w, err := watch.New(args, a.cfg.Watch().Debounce, logger)
	if err != nil {
		return err
	}

	err = w.Run(cmd.Context(), func(ctx context.Context) {
		htmlSrc, cssSrc, err := readFiles(args)
		if err != nil {
			logger.Warn("Skipping rebuild; input unreadable", zap.Error(err))
			return
		}
		if err := runOnce(ctx, htmlSrc, cssSrc); err != nil {
			if errors.Is(err, inspector.ErrEmptyInput) {
				logger.Warn("Skipping rebuild; html buffer is empty")
				return
			}
			logger.Warn("Rebuild failed", zap.Error(err))
		}
	})
	// Interruption is the normal way out of watch mode.
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resolveInputs materializes the html and css buffers from the store, stdin
// or the named files.
func resolveInputs(stdin io.Reader, a *app, opts *inspectOptions, args []string) (string, string, error) {
	if opts.restore {
		st, err := store.Open(a.cfg.Store().Dir)
		if err != nil {
			return "", "", err
		}
		return st.LoadPair()
	}

	var htmlSrc, cssSrc string
	if args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		htmlSrc = string(data)
	} else {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		htmlSrc = string(data)
	}

	if len(args) == 2 {
		if args[1] == "-" {
			return "", "", errors.New("only the html-file argument may be stdin")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return "", "", err
		}
		cssSrc = string(data)
	}
	return htmlSrc, cssSrc, nil
}

func readFiles(args []string) (string, string, error) {
	htmlData, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	var cssData []byte
	if len(args) == 2 {
		if cssData, err = os.ReadFile(args[1]); err != nil {
			return "", "", err
		}
	}
	return string(htmlData), string(cssData), nil
}

// writeOutput renders one build result to stdout or, with --out, to a file
// that is rewritten on every build.
func writeOutput(stdout io.Writer, outPath string, res *schemas.BuildResult, format render.Format) error {
	if outPath == "" {
		return render.Write(stdout, res, format)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := render.Write(f, res, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
