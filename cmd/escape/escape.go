package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/emit"
	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/render"
)

const (
	flagPreset = "preset"
	flagBounds = "bounds"
	flagXSteps = "x-steps"
	flagYSteps = "y-steps"
	flagConfig = "config"

	flagOut         = "out"
	flagJSONL       = "jsonl"
	flagWidth       = "width"
	flagHeight      = "height"
	flagShowEscaped = "show-escaped"

	flagFrames = "frames"
	flagZoom   = "zoom"
)

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escape",
		Short: "Scan a window of the complex plane for points of the Mandelbrot set",
		Args:  cobra.ExactArgs(0),
		RunE:  runCmd,
	}

	flags := cmd.Flags()
	flags.String(flagPreset, "full", fmt.Sprintf("named window, one of %s", strings.Join(mandel.PresetNames(), ", ")))
	flags.String(flagBounds, "", "explicit window as xLower,xUpper,yLower,yUpper; overrides --preset")
	flags.Int(flagXSteps, 100, "lattice intervals along the real axis")
	flags.Int(flagYSteps, 100, "lattice intervals along the imaginary axis")
	flags.String(flagConfig, "", "JSON file of scan settings; flags given explicitly take precedence")

	flags.String(flagOut, "mandel.png", "PNG scatter plot to write")
	flags.String(flagJSONL, "", "also write every sample as JSON lines to this file")
	flags.Int(flagWidth, 1024, "plot width in pixels")
	flags.Int(flagHeight, 1024, "plot height in pixels")
	flags.Bool(flagShowEscaped, false, "plot escaped points as well as in-set points")

	flags.Int(flagFrames, 1, "number of successive scans, each zoomed about the window center")
	flags.String(flagZoom, "0.5", "zoom factor applied between frames")

	cfg := mandel.DefaultConfig()
	cfg.AddFlags(flags)

	cmd.AddCommand(presetsCmd())

	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the named windows",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range mandel.PresetNames() {
				w, err := mandel.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", name, w)
			}
			return nil
		},
	}
}

func window(cmd *cobra.Command) (mandel.Window, error) {
	bounds, err := cmd.Flags().GetString(flagBounds)
	if err != nil {
		return mandel.Window{}, err
	}
	if bounds == "" {
		preset, err := cmd.Flags().GetString(flagPreset)
		if err != nil {
			return mandel.Window{}, err
		}
		return mandel.Preset(preset)
	}

	parts := strings.Split(bounds, ",")
	if len(parts) != 4 {
		return mandel.Window{}, fmt.Errorf("%w: --%s wants four values, got %q", mandel.ErrInvalidWindow, flagBounds, bounds)
	}
	return mandel.ParseWindow(parts[0], parts[1], parts[2], parts[3])
}

func config(cmd *cobra.Command) (mandel.Config, error) {
	cfg := mandel.DefaultConfig()

	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		cfg, err = mandel.LoadConfig(path, cfg)
		if err != nil {
			return cfg, err
		}
	}

	if err := mandel.ApplyFlags(cmd.Flags(), &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// frameName numbers out for every frame after the first.
func frameName(out string, frame int) string {
	if frame == 0 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(out, ext), frame, ext)
}

func runCmd(cmd *cobra.Command, _ []string) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	w, err := window(cmd)
	if err != nil {
		return err
	}
	cfg, err := config(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	xSteps, _ := flags.GetInt(flagXSteps)
	ySteps, _ := flags.GetInt(flagYSteps)
	grid := mandel.Grid{XSteps: xSteps, YSteps: ySteps}

	width, _ := flags.GetInt(flagWidth)
	height, _ := flags.GetInt(flagHeight)
	plot := render.NewChart(width, height)
	plot.ShowEscaped, _ = flags.GetBool(flagShowEscaped)

	var renderer mandel.Renderer = plot
	if path, _ := flags.GetString(flagJSONL); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		renderer = render.Tee(plot, render.NewJSONLines(f))
	}

	frames, _ := flags.GetInt(flagFrames)
	zoomFlag, _ := flags.GetString(flagZoom)
	zoom, err := decimal.Parse(zoomFlag)
	if err != nil {
		return fmt.Errorf("parsing --%s: %w", flagZoom, err)
	}

	ctx := cmd.Context()
	session, err := emit.New(renderer).Start(ctx, w, grid, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	out, _ := flags.GetString(flagOut)
	for frame := range max(frames, 1) {
		report, err := session.Wait()
		if err != nil {
			return err
		}

		name := frameName(out, frame)
		err = plot.WriteFile(name)
		switch {
		case errors.Is(err, render.ErrNoSamples):
			log.Printf("%s: no points in the set, nothing plotted", session.Window())
		case err != nil:
			return err
		default:
			log.Printf("wrote %s: %s", name, report)
		}

		if frame+1 < frames {
			if err := session.Zoom(zoom); err != nil {
				return err
			}
		}
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
