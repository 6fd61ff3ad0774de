package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/api/v1"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/catalog"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/config"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/logging"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/seed"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/server"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/util"
)

type serveOptions struct {
	port      int
	dev       bool
	noBrowser bool
	seed      uint64
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Seed mock data and start the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (ignored when config.toml sets server.port)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "development mode: redirect pages to the frontend dev server")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "do not open the browser on start")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "mock data seed (overrides config)")
	return cmd
}

// loadConfig 加载配置并应用命令行覆盖
func loadConfig(cmd *cobra.Command, opts serveOptions) (*config.AppConfig, error) {
	cfg, info, err := config.LoadConfigWithInfo(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Server.DevMode = true
	}
	if opts.noBrowser {
		cfg.Server.OpenBrowser = false
	}
	if cmd.Flags().Changed("seed") {
		cfg.Data.Seed = opts.seed
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, cfg *config.AppConfig) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ref, err := catalog.Load(cfg.Data.ReferenceFile)
	if err != nil {
		return err
	}

	st, err := store.NewMemory()
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := seed.Run(st, ref, seed.Options{Seed: cfg.Data.Seed, AssetsPerType: cfg.Data.AssetsPerType}, logger); err != nil {
		return err
	}

	api := v1.NewHandler(st, compat.NewResolver(st), v1.Options{
		CheckDelay: cfg.Compat.Delay(),
		Logger:     logger,
	})
	srv := server.NewServer(cfg, api, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Data.WatchReference {
		w := catalog.NewWatcher(cfg.Data.ReferenceFile, logger, func(ref *catalog.Reference) {
			if err := st.ReplaceReference(ref.Version, ref.AvatarBases, ref.Compatibility); err != nil {
				logger.Error("apply reloaded catalog failed", zap.Error(err))
			}
		})
		g.Go(func() error { return w.Run(gctx) })
	}

	url := util.LocalURL(cfg.Server.Port)
	switch {
	case cfg.Server.DevMode:
		logger.Info("development mode", zap.String("api", url+"/api"), zap.String("frontend", cfg.Server.FrontendURL))
	case cfg.Server.OpenBrowser:
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("could not open browser, visit manually", zap.String("url", url), zap.Error(err))
		}
	default:
		logger.Info("dashboard ready", zap.String("url", url))
	}

	return g.Wait()
}
