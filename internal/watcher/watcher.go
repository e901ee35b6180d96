package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/pkg/areas"
)

// Service coordinates store polls across the watched areas.
type Service struct {
	processor *AreaProcessor
	log       logger.Logger
}

// NewService wires a watcher over the backend store source.
func NewService(source StoreSource, publisher EventPublisher, log logger.Logger, deduper Deduper, recorder Recorder) *Service {
	log = logger.Ensure(log)
	return &Service{
		processor: NewAreaProcessor(source, publisher, log, deduper, recorder),
		log:       log,
	}
}

// Run executes one poll pass over all areas.
func (s *Service) Run(ctx context.Context, list []areas.Area) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("watcher service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no areas configured for watching")
	}

	errs := s.runAll(ctx, list)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// runAll polls areas in order, pausing each area's request delay between
// polls. A cancelled context stops the pass without reporting an error.
func (s *Service) runAll(ctx context.Context, list []areas.Area) []error {
	errs := make([]error, 0, len(list))

	for i, area := range list {
		if ctx.Err() != nil {
			return errs
		}
		if err := s.processor.Process(ctx, area); err != nil {
			if ctx.Err() != nil {
				return errs
			}
			errs = append(errs, err)
			s.log.ErrorObj("area poll failed", "area_error", map[string]any{
				"area_id": area.ID,
				"error":   err.Error(),
			})
		}
		if i < len(list)-1 && !sleep(ctx, area.RequestDelay()) {
			return errs
		}
	}
	return errs
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
