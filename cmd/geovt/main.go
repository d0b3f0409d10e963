// Command geovt builds a quadtree tile index from a GeoJSON file, serves it
// over HTTP, or dumps it to a PMTiles archive.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/geovt/internal/convert"
	"github.com/joeblew999/geovt/internal/geovt"
	"github.com/joeblew999/geovt/internal/mvtencode"
	"github.com/joeblew999/geovt/internal/pmtiles"
	"github.com/joeblew999/geovt/internal/server"
)

// Options defines the CLI flags and env vars shared by every subcommand.
// Flags: --host, --port, --input, --layer, --max-zoom, --index-max-zoom,
// --index-max-points, --tolerance, --extent, --buffer, --line-metrics,
// --generate-id
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_INPUT, SERVICE_LAYER,
// SERVICE_MAX_ZOOM, SERVICE_INDEX_MAX_ZOOM, SERVICE_INDEX_MAX_POINTS,
// SERVICE_TOLERANCE, SERVICE_EXTENT, SERVICE_BUFFER, SERVICE_LINE_METRICS,
// SERVICE_GENERATE_ID
type Options struct {
	Host string `doc:"Host to bind to" default:"0.0.0.0"`
	Port int    `doc:"Port to listen on" short:"p" default:"8086"`

	Input string `doc:"Path to a GeoJSON input file" default:""`
	Layer string `doc:"Output MVT layer name" default:"default"`

	MaxZoom        int     `doc:"Maximum zoom level (1-24)" default:"18"`
	IndexMaxZoom   int     `doc:"Zoom level at which the initial index build stops descending" default:"5"`
	IndexMaxPoints int     `doc:"Point count at which the initial index build stops descending" default:"100000"`
	Tolerance      float64 `doc:"Simplification tolerance in tile-extent units" default:"3"`
	Extent         int     `doc:"Tile extent" default:"4096"`
	Buffer         int     `doc:"Tile buffer in extent units" default:"64"`
	LineMetrics    bool    `doc:"Retain per-segment distance metrics for LineStrings" default:"false"`
	GenerateID     bool    `doc:"Assign a sequential numeric ID to every feature" default:"false"`
}

func (o *Options) toGeovtOptions() geovt.Options {
	return geovt.Options{
		MaxZoom:        o.MaxZoom,
		IndexMaxZoom:   o.IndexMaxZoom,
		IndexMaxPoints: o.IndexMaxPoints,
		Tolerance:      o.Tolerance,
		Extent:         o.Extent,
		Buffer:         o.Buffer,
		LineMetrics:    o.LineMetrics,
		GenerateID:     o.GenerateID,
	}
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:        opts.Host,
		Port:        fmt.Sprintf("%d", opts.Port),
		GeoJSONPath: opts.Input,
		LayerName:   opts.Layer,
		Options:     opts.toGeovtOptions(),
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("geovt tile server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Input:   %s\n", opts.Input)
			fmt.Println()
			fmt.Printf("  Tiles:   %s/tiles/{z}/{x}/{y}.mvt\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "geovt"
	cli.Root().Short = "Pre-index a GeoJSON file into a quadtree of vector tiles"
	cli.Root().Version = "0.1.0"

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Index a GeoJSON file and write every tile the initial build materialized to a PMTiles archive",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			output, _ := cmd.Flags().GetString("output")
			if err := runBuild(opts, output); err != nil {
				fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
				os.Exit(1)
			}
		}),
	}
	buildCmd.Flags().StringP("output", "o", "out.pmtiles", "Output PMTiles archive path")
	cli.Root().AddCommand(buildCmd)

	tileCmd := &cobra.Command{
		Use:   "tile [z] [x] [y]",
		Short: "Index a GeoJSON file and print one tile as GeoJSON-shaped JSON",
		Args:  cobra.ExactArgs(3),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			if err := runTile(opts, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error fetching tile: %v\n", err)
				os.Exit(1)
			}
		}),
	}
	cli.Root().AddCommand(tileCmd)

	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}

func runBuild(opts *Options, output string) error {
	if opts.Input == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.Input, err)
	}

	idx, err := convert.BuildIndex(data, opts.toGeovtOptions())
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	var entries []pmtiles.TileEntry
	for _, tc := range idx.TileCoords() {
		tile, err := idx.GetTile(int(tc.Z), int(tc.X), int(tc.Y))
		if err != nil {
			return fmt.Errorf("fetching tile (%d,%d,%d): %w", tc.Z, tc.X, tc.Y, err)
		}
		mvtBytes, err := mvtencode.EncodeGzipped(tile, opts.Layer, opts.Extent)
		if err != nil {
			return fmt.Errorf("encoding tile (%d,%d,%d): %w", tc.Z, tc.X, tc.Y, err)
		}
		entries = append(entries, pmtiles.TileEntry{Z: tc.Z, X: tc.X, Y: tc.Y, Data: mvtBytes})
	}

	if err := pmtiles.WriteArchive(output, entries, pmtiles.ArchiveOptions{
		LayerName: opts.Layer,
		MinZoom:   0,
		MaxZoom:   uint8(opts.MaxZoom),
	}); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	fmt.Printf("Indexed %d tile(s) from %s\n", len(entries), opts.Input)
	fmt.Printf("Wrote %s\n", output)
	for z, n := range idx.Stats() {
		fmt.Printf("  z%-2d: %d tile(s)\n", z, n)
	}
	return nil
}

func runTile(opts *Options, args []string) error {
	if opts.Input == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.Input, err)
	}
	idx, err := convert.BuildIndex(data, opts.toGeovtOptions())
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	var z, x, y int
	if _, err := fmt.Sscanf(args[0], "%d", &z); err != nil {
		return fmt.Errorf("invalid z: %s", args[0])
	}
	if _, err := fmt.Sscanf(args[1], "%d", &x); err != nil {
		return fmt.Errorf("invalid x: %s", args[1])
	}
	if _, err := fmt.Sscanf(args[2], "%d", &y); err != nil {
		return fmt.Errorf("invalid y: %s", args[2])
	}

	tile, err := idx.GetTile(z, x, y)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(tile, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
