package app

import (
	"fmt"

	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/pkg/httpclient"
	"github.com/vudials/vudials-go/pkg/vudials"
)

// NewDialClient builds a dial client from configuration.
func NewDialClient(cfg *config.Config, log logger.Logger) (*vudials.DialClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	return vudials.NewDialClient(cfg.ServerAddress, cfg.ServerPort, cfg.APIKey, clientOptions(cfg, log)...), nil
}

// NewAdminClient builds an admin client from configuration.
func NewAdminClient(cfg *config.Config, log logger.Logger) (*vudials.AdminClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	return vudials.NewAdminClient(cfg.ServerAddress, cfg.ServerPort, cfg.AdminKey, clientOptions(cfg, log)...), nil
}

func clientOptions(cfg *config.Config, log logger.Logger) []vudials.Option {
	opts := []vudials.Option{
		vudials.WithHTTPClient(httpclient.NewRestyClient(0)),
		vudials.WithDefaultTimeout(cfg.HTTPTimeout),
	}
	if log != nil {
		opts = append(opts, vudials.WithLogger(log))
	}
	return opts
}
