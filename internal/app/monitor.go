package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/internal/monitor"
	"github.com/vudials/vudials-go/pkg/publishers"
)

// Monitor is the dial status monitor runtime. It owns the poll loop and the
// publisher fanout.
type Monitor struct {
	fanout       *publishers.Fanout
	service      *monitor.Service
	pollInterval time.Duration
	log          logger.Logger
}

// NewMonitor builds a monitor runtime from config files.
func NewMonitor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	dials, err := NewDialClient(cfg, log)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}

	return &Monitor{
		fanout:       fanout,
		service:      monitor.NewService(dials, fanout, dials.BaseURL(), cfg.PollWorkers, log),
		pollInterval: cfg.PollInterval,
		log:          log,
	}, nil
}

// Run polls once immediately and then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m == nil || m.service == nil {
		return fmt.Errorf("monitor is not initialized")
	}
	defer m.closeFanout()

	m.log.InfoObj("monitor loop starting", "monitor_state", map[string]any{
		"publishers_count": m.fanout.Size(),
		"poll_interval":    m.pollInterval.String(),
	})

	if err := m.runOnce(ctx); err != nil {
		m.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("monitor loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := m.runOnce(ctx); err != nil {
				m.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) error {
	_, err := m.service.Run(ctx)
	return err
}

func (m *Monitor) closeFanout() {
	if err := m.fanout.Close(); err != nil {
		m.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}
