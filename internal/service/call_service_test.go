package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkore/open-calls-api/internal/models"
	appErrors "github.com/kolkore/open-calls-api/pkg/errors"
)

type callReaderStub struct {
	listFn    func(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error)
	optionsFn func(ctx context.Context) (*models.FilterOptions, error)
}

func (s *callReaderStub) List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error) {
	return s.listFn(ctx, filters, sortp, page)
}

func (s *callReaderStub) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	return s.optionsFn(ctx)
}

type cacheStub struct {
	store   map[string][]byte
	deleted []string
	getErr  error
	setErr  error
}

func newCacheStub() *cacheStub {
	return &cacheStub{store: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = raw
	return nil
}

func (c *cacheStub) Delete(ctx context.Context, key string) {
	c.deleted = append(c.deleted, key)
	delete(c.store, key)
}

func activeCall(id int64, title string) models.Call {
	return models.Call{ID: id, Title: title, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
}

func TestCallServiceListForcesActiveOnly(t *testing.T) {
	var seen models.CallFilters
	repo := &callReaderStub{
		listFn: func(_ context.Context, filters models.CallFilters, _ models.SortParams, _ models.PageParams) ([]models.Call, error) {
			seen = filters
			return []models.Call{activeCall(1, "Residency")}, nil
		},
	}
	svc := NewCallService(repo, nil, time.Minute, nil)

	archivedOnly := true
	calls, err := svc.List(context.Background(), models.CallFilters{Archived: &archivedOnly}, models.SortParams{}, models.PageParams{})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	// whatever the caller asked for, the public view only sees active rows
	require.NotNil(t, seen.Archived)
	assert.False(t, *seen.Archived)
}

func TestCallServiceListPublicShape(t *testing.T) {
	archived := time.Now()
	call := activeCall(3, "Grant")
	call.ArchivedAt = &archived
	repo := &callReaderStub{
		listFn: func(context.Context, models.CallFilters, models.SortParams, models.PageParams) ([]models.Call, error) {
			return []models.Call{call}, nil
		},
	}
	svc := NewCallService(repo, nil, time.Minute, nil)

	calls, err := svc.List(context.Background(), models.CallFilters{}, models.SortParams{}, models.PageParams{})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	raw, err := json.Marshal(calls[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "archivedAt")
}

func TestCallServiceListCorruptRow(t *testing.T) {
	repo := &callReaderStub{
		listFn: func(context.Context, models.CallFilters, models.SortParams, models.PageParams) ([]models.Call, error) {
			return []models.Call{{ID: 9, Title: ""}}, nil
		},
	}
	svc := NewCallService(repo, nil, time.Minute, nil)

	_, err := svc.List(context.Background(), models.CallFilters{}, models.SortParams{}, models.PageParams{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCorruptRecord.Code, appErrors.FromError(err).Code)
}

func TestCallServiceListRepoError(t *testing.T) {
	repo := &callReaderStub{
		listFn: func(context.Context, models.CallFilters, models.SortParams, models.PageParams) ([]models.Call, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewCallService(repo, nil, time.Minute, nil)

	_, err := svc.List(context.Background(), models.CallFilters{}, models.SortParams{}, models.PageParams{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCallServiceFilterOptionsCaching(t *testing.T) {
	queries := 0
	repo := &callReaderStub{
		optionsFn: func(context.Context) (*models.FilterOptions, error) {
			queries++
			return &models.FilterOptions{Types: []string{"grant"}}, nil
		},
	}
	cache := newCacheStub()
	svc := NewCallService(repo, cache, time.Minute, nil)

	first, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"grant"}, first.Types)

	second, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Types, second.Types)
	assert.Equal(t, 1, queries, "second read should come from cache")
}

func TestCallServiceFilterOptionsCacheFailureDegrades(t *testing.T) {
	repo := &callReaderStub{
		optionsFn: func(context.Context) (*models.FilterOptions, error) {
			return &models.FilterOptions{Locations: []string{"Haifa"}}, nil
		},
	}
	cache := newCacheStub()
	cache.getErr = errors.New("redis timeout")
	cache.setErr = errors.New("redis timeout")
	svc := NewCallService(repo, cache, time.Minute, nil)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Haifa"}, opts.Locations)
}

func TestCallServiceFilterOptionsNoCache(t *testing.T) {
	repo := &callReaderStub{
		optionsFn: func(context.Context) (*models.FilterOptions, error) {
			return &models.FilterOptions{}, nil
		},
	}
	svc := NewCallService(repo, nil, time.Minute, nil)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	require.NotNil(t, opts)
}
