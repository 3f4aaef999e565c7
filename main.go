package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/cache"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var cmdRoot = &cobra.Command{
	Use:          "sphere-raytracer",
	Short:        "Renders scenes of spheres with a stochastic ray tracer",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Cobra already set glog's flags; this only marks the flag set parsed
		flag.CommandLine.Parse(nil)
	},
}

// renderOptions holds the render command's flags
type renderOptions struct {
	sceneName    string
	sceneFile    string
	width        int
	height       int
	samples      int
	maxDepth     int
	workers      int
	tileSize     int
	seed         int64
	output       string
	format       string
	previewWidth uint
	cacheDir     string
	progress     bool
}

var renderOpts renderOptions

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a built-in scene or a YAML scene file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		opts := renderOpts
		opts.progress = term.IsTerminal(int(os.Stderr.Fd()))
		return runRender(ctx, opts)
	},
}

func init() {
	f := cmdRender.Flags()
	f.StringVar(&renderOpts.sceneName, "scene", "default", "Built-in scene name or path to a .yaml scene file")
	f.StringVar(&renderOpts.sceneFile, "scene-file", "", "Path to a YAML scene file (overrides --scene)")
	f.IntVar(&renderOpts.width, "width", 0, "Image width (0 = scene default)")
	f.IntVar(&renderOpts.height, "height", 0, "Image height (0 = derived from the scene)")
	f.IntVar(&renderOpts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	f.IntVar(&renderOpts.maxDepth, "max-depth", 0, "Recursion cutoff (0 = 51)")
	f.IntVar(&renderOpts.workers, "workers", 0, "Parallel workers (0 = CPU count)")
	f.IntVar(&renderOpts.tileSize, "tile-size", 0, "Tile edge length in pixels (0 = default)")
	f.Int64Var(&renderOpts.seed, "seed", 0, "Random seed (0 = default)")
	f.StringVar(&renderOpts.output, "output", "", "Output file, gs://bucket/object or s3://bucket/key (default output/<scene>/render_<timestamp>.<format>)")
	f.StringVar(&renderOpts.format, "format", "", "Image format: ppm or png (default from the output extension, else ppm)")
	f.UintVar(&renderOpts.previewWidth, "preview-width", 0, "Also write a downscaled PNG preview this many pixels wide")
	f.StringVar(&renderOpts.cacheDir, "cache-dir", "", "Directory of the render cache (empty = no cache)")
}

var scenesDir string

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in scenes and the scene files in --scene-dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := scene.ListAllScenes(scenesDir)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, group := range response.Groups {
			fmt.Fprintf(w, "%s:\n", group.Name)
			for _, info := range group.Scenes {
				id := info.ID
				if info.FilePath != "" {
					id = info.FilePath
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\n", id, info.DisplayName, info.Description)
			}
		}
		return w.Flush()
	},
}

func init() {
	cmdScenes.Flags().StringVar(&scenesDir, "scene-dir", "scenes", "Directory to scan for .yaml scene files")
}

// createScene loads a scene file or builds a built-in scene, and validates it
func createScene(sceneName, sceneFile string) (*scene.Scene, error) {
	var s *scene.Scene
	var err error

	switch {
	case sceneFile != "":
		s, err = loaders.LoadYAMLScene(sceneFile)
	case strings.HasSuffix(sceneName, ".yaml") || strings.HasSuffix(sceneName, ".yml"):
		s, err = loaders.LoadYAMLScene(sceneName)
	case sceneName == "":
		return nil, fmt.Errorf("no scene given")
	default:
		s, err = scene.NewSceneByName(sceneName)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveSize applies flag overrides to the scene's recommended size. Giving
// only one dimension keeps the scene's aspect ratio.
func resolveSize(s *scene.Scene, width, height int) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, max(1, width*s.Height/s.Width)
	case height > 0:
		return max(1, height*s.Width/s.Height), height
	default:
		return s.Width, s.Height
	}
}

// previewDestination turns image.ppm into image_preview.png
func previewDestination(dest string) string {
	ext := filepath.Ext(dest)
	return strings.TrimSuffix(dest, ext) + "_preview.png"
}

func runRender(ctx context.Context, opts renderOptions) error {
	s, err := createScene(opts.sceneName, opts.sceneFile)
	if err != nil {
		return fmt.Errorf("while creating scene: %w", err)
	}
	width, height := resolveSize(s, opts.width, opts.height)

	config := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), s.SamplingConfig)
	config = renderer.MergeSamplingConfig(config, renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.maxDepth,
		NumWorkers:      opts.workers,
		TileSize:        opts.tileSize,
		Seed:            opts.seed,
	})

	format := output.FormatFromPath(opts.output)
	if opts.format != "" {
		if format, err = output.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	dest := opts.output
	if dest == "" {
		timestamp := time.Now().Format("20060102_150405")
		dest = filepath.Join("output", s.Name, fmt.Sprintf("render_%s.%s", timestamp, format))
	}

	var store *cache.Store
	var cacheKey string
	if opts.cacheDir != "" {
		store, err = cache.Open(opts.cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()

		sceneYAML, err := loaders.MarshalYAMLScene(s)
		if err != nil {
			return fmt.Errorf("while describing scene for the cache: %w", err)
		}
		cacheKey = cache.Key(sceneYAML, width, height, config, string(format))
	}

	var data []byte
	if store != nil && opts.previewWidth == 0 {
		data, err = store.Get(cacheKey)
		switch {
		case err == nil:
			glog.Infof("Cache hit for %q (%s)", s.Name, cacheKey)
		case !errors.Is(err, cache.ErrMiss):
			glog.Warningf("Ignoring cache: %v", err)
		}
	}

	if data == nil {
		img, err := render(ctx, s, width, height, config, opts.progress)
		if err != nil {
			return err
		}

		data, err = output.Encode(img, format)
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.Put(cacheKey, data); err != nil {
				glog.Warningf("Could not cache render: %v", err)
			}
		}

		if opts.previewWidth > 0 {
			if err := writePreview(ctx, img, opts.previewWidth, previewDestination(dest)); err != nil {
				return err
			}
		}
	}

	sink, err := output.NewSink(ctx, dest)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, data, format.ContentType()); err != nil {
		return err
	}

	glog.Infof("Render saved as %s", sink)
	fmt.Printf("Render saved as %s\n", sink)
	return nil
}

func render(ctx context.Context, s *scene.Scene, width, height int, config renderer.SamplingConfig, progress bool) (*renderer.Image, error) {
	rt := renderer.NewRaytracer(s, width, height, config, renderer.NewGlogLogger())
	if progress {
		rt.SetProgressFunc(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r%3d%% (%d/%d pixels)", 100*done/total, done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		})
	}

	img, stats, err := rt.Render(ctx)
	if err != nil {
		return nil, err
	}

	glog.Infof("Render completed in %v: %d pixels, %.1f samples/pixel, %d rays",
		stats.Duration, stats.TotalPixels, stats.AverageSamples, stats.RaysTraced)
	return img, nil
}

func writePreview(ctx context.Context, img *renderer.Image, width uint, dest string) error {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, output.Preview(img, width)); err != nil {
		return err
	}
	data := buf.Bytes()

	sink, err := output.NewSink(ctx, dest)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, data, output.FormatPNG.ContentType()); err != nil {
		return fmt.Errorf("while writing preview: %w", err)
	}
	glog.Infof("Preview saved as %s", sink)
	return nil
}

func main() {
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	// glog registers its flags on the standard flag set
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmdRoot.AddCommand(cmdRender, cmdScenes)

	if err := cmdRoot.Execute(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}
