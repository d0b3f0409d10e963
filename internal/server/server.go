// Package server exposes a read-only tile HTTP API over a geovt.Index built
// once at startup. There is no write path: indexing is synchronous and
// in-memory (§5 of the indexing design), so the server only ever answers
// GetTile calls against whatever was built when it started.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/geovt/internal/convert"
	"github.com/joeblew999/geovt/internal/geovt"
	"github.com/joeblew999/geovt/internal/mvtencode"
)

// Config holds the server configuration.
type Config struct {
	Host string
	Port string

	// GeoJSONPath is the source file indexed at startup.
	GeoJSONPath string
	LayerName   string
	Options     geovt.Options
}

// Server is the geovt HTTP server.
type Server struct {
	config  Config
	mux     *http.ServeMux
	humaAPI huma.API
	index   *geovt.Index
}

// New builds the index from cfg.GeoJSONPath and wires the tile routes. A
// missing or unparsable source file leaves the server running with an
// empty index rather than failing startup — matching the index's own
// tolerance for empty/malformed input (§7).
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("geovt API", "1.0.0")
	humaConfig.Info.Description = "Pre-indexed GeoJSON-to-vector-tile server."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaAPI := humago.New(mux, humaConfig)

	var idx *geovt.Index
	if cfg.GeoJSONPath != "" {
		if data, err := os.ReadFile(cfg.GeoJSONPath); err == nil {
			if built, err := convert.BuildIndex(data, cfg.Options); err == nil {
				idx = built
			}
		}
	}
	if idx == nil {
		idx, _ = geovt.New(nil, cfg.Options)
	}

	s := &Server{config: cfg, mux: mux, humaAPI: humaAPI, index: idx}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated spec, for the CLI's spec subcommand.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	huma.Get(s.humaAPI, "/health", s.getHealth, huma.OperationTags("health"))
	huma.Get(s.humaAPI, "/tiles/{z}/{x}/{y}.json", s.getTileJSON, huma.OperationTags("tiles"))
	huma.Get(s.humaAPI, "/tiles/{z}/{x}/{y}.mvt", s.getTileMVT, huma.OperationTags("tiles"))
}

type healthBody struct {
	Status string `json:"status" doc:"Health status" example:"ok"`
}

func (s *Server) getHealth(ctx context.Context, input *struct{}) (*struct{ Body healthBody }, error) {
	return &struct{ Body healthBody }{Body: healthBody{Status: "ok"}}, nil
}

// tileInput is the shared path-parameter shape for both tile routes.
type tileInput struct {
	Z int `path:"z" doc:"Zoom level"`
	X int `path:"x" doc:"Tile column"`
	Y int `path:"y" doc:"Tile row"`
}

type tileJSONOutput struct {
	Body geovt.Tile
}

func (s *Server) getTileJSON(ctx context.Context, input *tileInput) (*tileJSONOutput, error) {
	tile, err := s.index.GetTile(input.Z, input.X, input.Y)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &tileJSONOutput{Body: tile}, nil
}

type tileMVTOutput struct {
	ContentType     string `header:"Content-Type"`
	ContentEncoding string `header:"Content-Encoding"`
	Body            []byte
}

func (s *Server) getTileMVT(ctx context.Context, input *tileInput) (*tileMVTOutput, error) {
	tile, err := s.index.GetTile(input.Z, input.X, input.Y)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	data, err := mvtencode.EncodeGzipped(tile, s.config.LayerName, s.config.Options.Extent)
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding tile", err)
	}
	return &tileMVTOutput{
		ContentType:     "application/vnd.mapbox-vector-tile",
		ContentEncoding: "gzip",
		Body:            data,
	}, nil
}
