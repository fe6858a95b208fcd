package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"Meeple/config"
	_ "Meeple/config/swagger"
	"Meeple/controllers"
	"Meeple/data"
	"Meeple/middleware"
	"Meeple/routes"
	"Meeple/services/engine"
	"Meeple/services/lobby"
	"Meeple/services/overrides"
	"Meeple/services/redis"
	"Meeple/services/redis/utils"
	"Meeple/sync"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// @title Meeple API
// @version 1.0
// @description Gin-Gonic server for two-player tile-placement matches
// @BasePath /
func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "serve")
	}

	settings := config.Load()
	root := &cli.Command{
		Name:  "meeple",
		Usage: "Tile-placement match server",
		Commands: []*cli.Command{
			serveCommand(settings),
			tilesetCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serveCommand flags default to the environment-derived settings, so a
// flag overrides the environment which overrides the built-in defaults
func serveCommand(s config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: s.Host, Usage: "bind host"},
			&cli.StringFlag{Name: "port", Value: strconv.Itoa(s.Port), Usage: "bind port"},
			&cli.BoolFlag{Name: "prod", Value: s.Prod, Usage: "release mode and production logging"},
			&cli.StringFlag{Name: "tileset", Value: s.TilesetPath, Usage: "tile set JSON file (empty for the embedded base set)"},
			&cli.StringFlag{Name: "overrides-backend", Value: s.OverridesBackend, Usage: "file or redis"},
			&cli.StringFlag{Name: "overrides-file", Value: s.OverridesFile, Usage: "override document path for the file backend"},
			&cli.StringFlag{Name: "redis-url", Value: s.RedisURL, Usage: "Redis URL for the redis backend"},
			&cli.BoolFlag{Name: "migrate", Value: s.MigratePostgres, Usage: "auto-migrate the match archive tables"},
			&cli.DurationFlag{Name: "session-timeout", Value: s.SessionTimeout, Usage: "idle time before a session is dropped"},
			&cli.DurationFlag{Name: "invite-timeout", Value: s.InviteTimeout, Usage: "time before a pending invite expires"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			port, err := strconv.Atoi(c.String("port"))
			if err != nil || port <= 0 {
				return fmt.Errorf("invalid port %q", c.String("port"))
			}
			s.Host = c.String("host")
			s.Port = port
			s.Prod = c.Bool("prod")
			s.TilesetPath = c.String("tileset")
			s.OverridesBackend = c.String("overrides-backend")
			s.OverridesFile = c.String("overrides-file")
			s.RedisURL = c.String("redis-url")
			s.MigratePostgres = c.Bool("migrate")
			s.SessionTimeout = c.Duration("session-timeout")
			s.InviteTimeout = c.Duration("invite-timeout")
			return runServer(ctx, s)
		},
	}
}

func tilesetCommand() *cli.Command {
	return &cli.Command{
		Name:  "tileset",
		Usage: "Tile set helpers",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Load and validate a tile set file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "tile set JSON file (empty for the embedded base set)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ts, err := loadTileSet(c.String("path"))
					if err != nil {
						return err
					}
					if _, err := engine.New(ts); err != nil {
						return err
					}
					fmt.Printf("tiles: %d definitions, %d in supply, start tile %s\n",
						len(ts.Document().Tiles), ts.TotalTiles(), ts.StartTileID())
					return nil
				},
			},
		},
	}
}

func loadTileSet(path string) (*engine.TileSet, error) {
	if path == "" {
		return engine.LoadTileSet(data.BaseTileSet())
	}
	return engine.LoadTileSetFile(path)
}

func newLogger(prod bool) (*zap.Logger, error) {
	if prod {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func runServer(ctx context.Context, s config.Settings) error {
	log, err := newLogger(s.Prod)
	if err != nil {
		return err
	}
	defer log.Sync()

	if s.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	ts, err := loadTileSet(s.TilesetPath)
	if err != nil {
		return fmt.Errorf("error loading tile set: %w", err)
	}
	eng, err := engine.New(ts)
	if err != nil {
		return fmt.Errorf("error preparing tile set: %w", err)
	}
	log.Info("tile set loaded", zap.Int("tiles", ts.TotalTiles()), zap.String("start", ts.StartTileID()))

	opts := lobby.Options{
		SessionTimeout: s.SessionTimeout,
		InviteTimeout:  s.InviteTimeout,
		Logger:         log.Named("lobby"),
	}
	var history controllers.MatchHistory
	if s.ArchiveEnabled() {
		gormDB, err := config.ConnectGORM(s, log)
		if err != nil {
			return err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return fmt.Errorf("error reading GORM PostgreSQL instance: %w", err)
		}
		defer sqlDB.Close()

		// Only migrate in development or during deployment
		if s.MigratePostgres {
			if err := config.MigrateDatabase(gormDB); err != nil {
				log.Warn("database migration failed", zap.Error(err))
			} else {
				log.Info("database migrated")
			}
		}
		archive := sync.NewSyncManager(gormDB, log.Named("archive"))
		opts.Archiver = archive
		history = archive
	}

	var store overrides.Store
	var target string
	switch s.OverridesBackend {
	case config.OverridesRedis:
		redisClient, err := config.Connect_redis(s, log)
		if err != nil {
			return err
		}
		defer redis.CloseRedis(redisClient)
		store = redis.NewOverrideStore(redisClient, "default")
		target = utils.FormatOverridesKey("default")
	case config.OverridesFile, "":
		store = overrides.NewFileStore(s.OverridesFile)
		target = filepath.Base(s.OverridesFile)
	default:
		return fmt.Errorf("unknown overrides backend %q", s.OverridesBackend)
	}

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log.Named("http")))
	middleware.SetUpMiddleware(r, s.SessionKey, s.Prod)
	routes.SetupRoutes(r, routes.Services{
		Lobby:           lobby.New(eng, opts),
		Overrides:       store,
		OverridesTarget: target,
		History:         history,
		Log:             log,
	})

	srv := &http.Server{Addr: s.Addr(), Handler: r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
