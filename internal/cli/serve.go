package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/catalog"
	"github.com/tessro/tunewave/internal/logging"
	"github.com/tessro/tunewave/internal/mpv"
	"github.com/tessro/tunewave/internal/playback"
	"github.com/tessro/tunewave/internal/server"
)

var (
	serveAddr    string
	serveNoSpawn bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the playback service",
	Long: `Start mpv in idle mode and serve the HTTP API.

Endpoints:
  GET  /trending          replace the playlist with the curated list
  GET  /search?q=...      search YouTube and replace the playlist
  POST /play?id=...       play a track by YouTube id
  POST /control/{cmd}     pause, next or prev
  POST /seek?pos=...      seek to an absolute position in seconds
  GET  /status            current position, duration, pause and idle state
  GET  /playlist          playlist, cursor and now-playing track
  GET  /health            service and renderer info
  GET  /ws                websocket status stream`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveNoSpawn, "no-spawn", false, "attach to an mpv already listening on player.socket")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	if Verbose() && log.GetLevel() > zerolog.DebugLevel {
		log = log.Level(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisor := mpv.NewSupervisor(cfg.Player, logging.Component(log, "supervisor"))
	if !serveNoSpawn {
		if err := supervisor.EnsureRunning(ctx); err != nil {
			return err
		}
		defer func() {
			if err := supervisor.Stop(); err != nil {
				log.Warn().Err(err).Msg("stopping renderer")
			}
		}()
	}

	renderer := mpv.NewClient(cfg.Player.Socket, cfg.Player.IPCDeadline(),
		mpv.WithLogger(logging.Component(log, "ipc")))
	ctrl := playback.NewController(renderer, cfg.Player.URLTemplate, logging.Component(log, "controller"))
	reporter := playback.NewReporter(renderer, ctrl, logging.Component(log, "reporter"))

	srv := server.New(server.Options{
		Controller:     ctrl,
		Reporter:       reporter,
		Catalog:        buildCatalog(ctx, log),
		Renderer:       supervisor,
		SearchLimit:    cfg.Catalog.SearchLimit,
		StreamInterval: cfg.Server.StreamEvery(),
		CatalogTimeout: cfg.Catalog.RouteDeadline(),
		Logger:         logging.Component(log, "http"),
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return srv.ListenAndServe(ctx, addr)
}

// buildCatalog wires YouTube search, behind the redis cache when
// catalog.redis_url is set and reachable.
func buildCatalog(ctx context.Context, log zerolog.Logger) catalog.Catalog {
	yt := catalog.NewYouTube(cfg.Catalog.SearchDeadline(), logging.Component(log, "catalog"))
	if cfg.Catalog.RedisURL == "" {
		return yt
	}

	rdb, err := catalog.NewRedis(cfg.Catalog.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("search cache disabled")
		return yt
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("url", cfg.Catalog.RedisURL).Msg("search cache unreachable, continuing without it")
		_ = rdb.Close()
		return yt
	}
	return catalog.NewCached(yt, rdb, cfg.Catalog.TTL(), logging.Component(log, "cache"))
}
