// Package server assembles the geoscene HTTP server: the scene graph, the
// record store, and the Huma API over them.
package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/odnoliu/geoscene/internal/api"
	"github.com/odnoliu/geoscene/internal/api/live"
	"github.com/odnoliu/geoscene/internal/auth"
	"github.com/odnoliu/geoscene/internal/db"
	"github.com/odnoliu/geoscene/internal/geom"
	"github.com/odnoliu/geoscene/internal/scene"
	"github.com/odnoliu/geoscene/internal/source"
)

// Config holds the server configuration.
type Config struct {
	Host     string
	Port     string
	DataDir  string
	Basemaps string // composite catalog id string loaded at startup
	AuthURL  string // identity service base URL; empty disables auth
	Logger   zerolog.Logger
}

// Server is the geoscene HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	surface  *scene.Surface
	bus      *scene.Bus
	services *api.Services
}

// New creates a new geoscene server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("geoscene API", "1.0.0")
	humaConfig.Info.Description = "Map scene-graph service: layers, features, basemaps, highlight."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	// The scene: a headless surface with a world view, mutated only through
	// the mutator.
	surface := scene.NewSurface(orb.Point{0, 0}, 2)
	bus := scene.NewBus()
	codec := geom.NewCodec()
	factory := scene.NewFactory(codec, scene.NewIconLoader(), cfg.Logger)
	mutator := scene.NewMutator(surface, factory, bus, cfg.Logger)

	services := &api.Services{
		Mutator:  mutator,
		Factory:  factory,
		Surface:  surface,
		Overlays: source.NewOverlays(cfg.DataDir),
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		surface:  surface,
		bus:      bus,
		services: services,
	}

	// Record store is optional; the scene API degrades to 503 on the
	// load endpoints when the database is unavailable.
	conn, err := db.Get(db.Config{DataDir: cfg.DataDir, DBName: "geoscene"})
	if err == nil {
		s.db = conn
		services.Store = source.NewStore(conn, cfg.Logger)
	} else {
		cfg.Logger.Warn().Err(err).Msg("record store unavailable")
	}

	if cfg.AuthURL != "" {
		humaAPI.UseMiddleware(s.authMiddleware(auth.NewClient(cfg.AuthURL)))
	}

	s.routes()

	// Seed the configured basemaps so the viewer has something to switch on.
	for _, l := range factory.TileLayers(cfg.Basemaps) {
		mutator.Add(l)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the API description for spec export.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close closes server resources.
func (s *Server) Close() error {
	s.surface.Close()
	return db.Close()
}

func (s *Server) routes() {
	sceneHandler := api.NewSceneHandler(s.services)
	sceneHandler.RegisterRoutes(s.humaAPI)

	infoHandler := api.NewInfoHandler(s.config.DataDir, s.db != nil)
	infoHandler.RegisterRoutes(s.humaAPI)

	eventHandler := live.NewEventHandler(s.bus)
	eventHandler.RegisterRoutes(s.humaAPI)
}

// authMiddleware guards mutating routes behind the identity gateway.
// Reads stay open; the viewer works without a session.
func (s *Server) authMiddleware(gw auth.Gateway) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if ctx.Method() == http.MethodGet {
			next(ctx)
			return
		}

		// Only bearer credentials reach the identity service; any other
		// scheme is denied outright.
		token := ""
		if header := ctx.Header("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		decision, err := gw.Check(ctx.Context(), token)
		if err != nil {
			huma.WriteErr(s.humaAPI, ctx, http.StatusBadGateway, "identity service unavailable", err)
			return
		}
		if !decision.Allow {
			ctx.SetHeader("Location", decision.Redirect)
			huma.WriteErr(s.humaAPI, ctx, http.StatusUnauthorized, "authentication required")
			return
		}
		next(ctx)
	}
}
