package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/blobstore"
	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/export"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/media"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/share"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses prefs.toml next to the config
	// ExportPath, when set, writes the catalog as CSV and returns without
	// starting the UI. "-" writes to stdout.
	ExportPath string
}

// Run boots shelf until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closeLog() }()

	store, err := blobstore.Open(blobstore.Config{
		Driver: blobstore.Driver(cfg.Store.Driver),
		Path:   cfg.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close store failed", zap.Error(err))
		}
	}()

	products, err := catalog.New(store, catalog.WithLogger(log.Named("catalog")))
	if err != nil {
		return err
	}
	_, loadErr := products.Load(ctx)

	if opts.ExportPath != "" {
		if loadErr != nil {
			return fmt.Errorf("load catalog: %w", loadErr)
		}
		return exportCatalog(opts.ExportPath, products.Catalog(), log)
	}

	sharer, err := share.New(ctx, shareConfig(cfg.Share), log.Named("share"))
	if err != nil {
		// Sharing reports "no share target configured" until the config is fixed.
		log.Warn("share target unavailable", zap.String("target", cfg.Share.Target), zap.Error(err))
		sharer = nil
	}

	sources := media.Sources{
		Library: &media.Library{Root: cfg.Library.Root, Log: log.Named("library")},
		Camera:  &media.Camera{Command: cfg.Camera.Command, Dir: cfg.Camera.Dir, Log: log.Named("camera")},
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = config.PrefsPath(opts.ConfigPath)
	}
	userPrefs := prefs.Load(prefsPath)

	log.Info("shelf started",
		zap.String("store", cfg.Store.Driver),
		zap.String("share", cfg.Share.Target),
		zap.Int("products", len(products.Catalog())),
	)

	return ui.Run(ui.Options{
		Context:    ctx,
		Products:   products,
		Engine:     bulk.New(products, sharer, log.Named("bulk")),
		Media:      sources,
		Permission: &media.CommandPermission{Command: cfg.Camera.Command, Log: log.Named("camera")},
		Logger:     log,
		LogPath:    cfg.Log.File,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
		Prefs:      userPrefs,
		LoadErr:    loadErr,
	})
}

func shareConfig(cfg config.ShareConfig) share.Config {
	return share.Config{
		Target: share.Target(cfg.Target),
		Dir:    cfg.Dir,
		S3: share.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
			PresignExpiry:   time.Duration(cfg.S3.PresignMinutes) * time.Minute,
			Concurrency:     cfg.S3.Concurrency,
		},
	}
}

func exportCatalog(path string, c catalog.Catalog, log *zap.Logger) error {
	if path == "-" {
		if err := export.Write(os.Stdout, c); err != nil {
			return fmt.Errorf("export catalog: %w", err)
		}
		return nil
	}
	if err := export.WriteFile(path, c); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	log.Info("catalog exported", zap.String("path", path), zap.Int("products", len(c)))
	return nil
}
