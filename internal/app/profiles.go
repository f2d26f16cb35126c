package app

import (
	"context"
	"fmt"

	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/internal/profiles"
	"github.com/vudials/vudials-go/internal/storage"
)

// ApplyProfiles loads the dial profiles file and pushes every profile to the
// server. Background uploads are tracked in the configured ledger.
func ApplyProfiles(ctx context.Context, cfg *config.Config, log logger.Logger, force bool) (profiles.Result, error) {
	if cfg == nil {
		return profiles.Result{}, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
	if err != nil {
		return profiles.Result{}, fmt.Errorf("load profiles: %w", err)
	}
	all := reg.All()
	log.InfoObj("dial profiles loaded", "profiles_meta", map[string]any{
		"count": len(all),
		"file":  cfg.ProfilesFile,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		UploadTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return profiles.Result{}, fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.ErrorObj("storage close failed", "error", cerr.Error())
		}
	}()

	dials, err := NewDialClient(cfg, log)
	if err != nil {
		return profiles.Result{}, err
	}

	return profiles.NewApplier(dials, store, log).Apply(ctx, all, force)
}
