package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/game"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/httpmw"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/save"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/server"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/telemetry"
	staticfiles "github.com/ronmurphy/soundrel-webgame-sub000/static"
	"github.com/ronmurphy/soundrel-webgame-sub000/ui/page"
)

type Options struct {
	Config        *config.Config
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger

	// Ctx bounds the websocket hub and its event poller. Nil means the
	// handler outlives the process.
	Ctx context.Context
}

// NewHandler assembles the whole HTTP surface: static assets, health
// probes, the game API, the websocket hub, and the debug route
// explorer, all behind the middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	cfg := opts.Config

	saves, err := openSaves(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	engine := game.NewEngine(game.Options{
		Saves:   saves,
		Events:  telemetry.NewMemoryRepository(),
		Logger:  opts.Logger,
		Seed:    cfg.SeededRNG.Seed,
		Balance: &cfg.Balance,
	})

	hub := server.NewHub(opts.Logger)
	go hub.Run(opts.Ctx)
	hub.StartEventPoller(opts.Ctx, engine)
	engine.OnCommit(hub.BroadcastSnapshot)

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "scoundrel",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := saves.Has(r.Context(), run.ModeCheckpoint); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "save storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "scoundrel",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	rr := &server.RouteRegistry{}
	app := &server.App{Engine: engine, Hub: hub, BootNow: time.Now().UTC()}
	server.RegisterAPIRoutes(mux, rr, app)
	server.RegisterDebugUI(mux, rr)

	mux.Handle("GET /{$}", templ.Handler(page.HomePage()))

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func openSaves(cfg *config.Config, logger *log.Logger) (save.Repository, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return save.NewMemoryRepository(), nil
	default:
		db, err := save.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Printf("serverapp: saves at %s", cfg.Storage.DBPath)
		return save.NewSQLiteRepository(db), nil
	}
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SCOUNDREL_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
