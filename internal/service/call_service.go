package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kolkore/open-calls-api/internal/models"
	appErrors "github.com/kolkore/open-calls-api/pkg/errors"
)

// optionsCacheKey stores the filter picker payload.
const optionsCacheKey = "calls:options"

type callReader interface {
	List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error)
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

type optionsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// CallService serves the public, unauthenticated view of the board.
// Archived calls are invisible here and the archival timestamp never
// appears in its output shape.
type CallService struct {
	repo     callReader
	cache    optionsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCallService constructs the public call service.
func NewCallService(repo callReader, cache optionsCache, cacheTTL time.Duration, logger *zap.Logger) *CallService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns active calls matching the filters. The archived
// exclusion is forced here; whatever the caller parsed cannot
// override it.
func (s *CallService) List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.PublicCall, error) {
	activeOnly := false
	filters.Archived = &activeOnly

	calls, err := s.repo.List(ctx, filters, sortp, page)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calls")
	}

	result := make([]models.PublicCall, 0, len(calls))
	for _, call := range calls {
		if err := validateCall(call); err != nil {
			return nil, err
		}
		result = append(result, call.Public())
	}
	return result, nil
}

// FilterOptions returns the distinct filter dimension values, served
// from Redis when fresh. Cache failures degrade to a direct query.
func (s *CallService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	if s.cache != nil {
		var cached models.FilterOptions
		err := s.cache.Get(ctx, optionsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("filter options cache lookup failed", zap.Error(err))
		}
	}

	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filter options")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, optionsCacheKey, opts, s.cacheTTL); err != nil {
			s.logger.Warn("filter options cache write failed", zap.Error(err))
		}
	}
	return opts, nil
}

// validateCall is the strict read-back check: a stored row that no
// longer conforms to the record shape is a defect and fails the whole
// call instead of leaking malformed data.
func validateCall(call models.Call) error {
	if call.ID <= 0 {
		return appErrors.Clone(appErrors.ErrCorruptRecord, fmt.Sprintf("call %d has an invalid id", call.ID))
	}
	if call.Title == "" {
		return appErrors.Clone(appErrors.ErrCorruptRecord, fmt.Sprintf("call %d has an empty title", call.ID))
	}
	if call.CreatedAt.IsZero() {
		return appErrors.Clone(appErrors.ErrCorruptRecord, fmt.Sprintf("call %d has no creation time", call.ID))
	}
	return nil
}
