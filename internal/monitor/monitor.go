package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/pkg/publishers"
)

const defaultWorkers = 4

// Summary reports the outcome of one polling pass.
type Summary struct {
	Dials     int
	Published int
	Failed    int
	Elapsed   time.Duration
}

// Service polls every dial's status and publishes one event per dial.
type Service struct {
	dials     DialReader
	publisher EventPublisher
	source    string
	workers   int
	log       logger.Logger
}

// NewService wires a monitor. source identifies the dial server in events.
func NewService(dials DialReader, pub EventPublisher, source string, workers int, log logger.Logger) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		dials:     dials,
		publisher: pub,
		source:    source,
		workers:   workers,
		log:       log,
	}
}

// Run executes a single polling pass across all dials reported by the server.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s == nil || s.dials == nil {
		return Summary{}, fmt.Errorf("monitor service is not initialized")
	}
	start := time.Now()

	resp, err := s.dials.ListDials(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list dials: %w", err)
	}
	dials, err := parseDialList(resp.Body())
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Dials: len(dials)}
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, d := range dials {
		if gctx.Err() != nil {
			break
		}
		d := d
		g.Go(func() error {
			err := s.pollDial(gctx, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				errs = append(errs, err)
				return nil
			}
			sum.Published++
			return nil
		})
	}
	_ = g.Wait()

	sum.Elapsed = time.Since(start)
	s.log.InfoObj("dial poll completed", "poll_result", map[string]any{
		"dials":      sum.Dials,
		"published":  sum.Published,
		"failed":     sum.Failed,
		"elapsed_ms": sum.Elapsed.Milliseconds(),
	})
	return sum, errors.Join(errs...)
}

func (s *Service) pollDial(ctx context.Context, d DialSummary) error {
	resp, err := s.dials.GetDialInfo(ctx, d.UID)
	if err != nil {
		s.log.WarnObj("dial status fetch failed", "dial_error", map[string]any{
			"dial_uid": d.UID,
			"error":    err.Error(),
		})
		return fmt.Errorf("dial %s status: %w", d.UID, err)
	}

	if s.publisher == nil {
		return nil
	}
	evt := publishers.NewEvent(s.source, d.UID, d.Name, resp.Body())
	if _, err := s.publisher.Publish(ctx, evt); err != nil {
		return fmt.Errorf("dial %s publish: %w", d.UID, err)
	}
	return nil
}
