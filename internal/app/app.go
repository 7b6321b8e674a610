package app

import (
	"fmt"
	"time"

	"github.com/Usmankh4/netflixclone/pkg/cache"
	"github.com/Usmankh4/netflixclone/pkg/storage"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseDSN string
	Store       store.Store

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	Images         storage.ImageStore

	Rails cache.RailCache
}

// App wires storage, object storage, and the rail cache together and owns
// the domain rules: account bootstrap, profile ownership, the favorites
// toggle, watch history, and ratings.
type App struct {
	store         store.Store
	images        storage.ImageStore
	rails         cache.RailCache
	presignExpiry time.Duration
	now           func() time.Time
}

// New constructs the application. A nil cfg.Store falls back to Postgres via
// cfg.DatabaseDSN; a nil cfg.Images falls back to MinIO.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("database DSN required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	images := cfg.Images
	if images == nil {
		var err error
		images, err = storage.NewMinioImageStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("init image store: %w", err)
		}
	}

	return &App{
		store:         dataStore,
		images:        images,
		rails:         cfg.Rails,
		presignExpiry: 15 * time.Minute,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}
