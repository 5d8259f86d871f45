package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kolkore/open-calls-api/internal/dto"
	"github.com/kolkore/open-calls-api/internal/models"
	appErrors "github.com/kolkore/open-calls-api/pkg/errors"
	"github.com/kolkore/open-calls-api/pkg/export"
)

// exportPageSize bounds each page fetched while streaming an export.
const exportPageSize = 200

type adminCallRepository interface {
	List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error)
	GetByID(ctx context.Context, id int64) (*models.Call, error)
	Create(ctx context.Context, call models.Call) (*models.Call, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Call, error)
}

// AdminCallService is the privileged surface over the board: full
// record shape, tri-state archived filtering, and all mutations.
// Authorization happens at the routing boundary, never in here.
type AdminCallService struct {
	repo          adminCallRepository
	cache         optionsCache
	validator     *validator.Validate
	logger        *zap.Logger
	csv           *export.CSVExporter
	pdf           *export.PDFExporter
	exportMaxRows int
}

// NewAdminCallService constructs the admin call service.
func NewAdminCallService(repo adminCallRepository, cache optionsCache, validate *validator.Validate, logger *zap.Logger, exportMaxRows int) *AdminCallService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exportMaxRows <= 0 {
		exportMaxRows = 2000
	}
	return &AdminCallService{
		repo:          repo,
		cache:         cache,
		validator:     validate,
		logger:        logger,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		exportMaxRows: exportMaxRows,
	}
}

// List returns calls including archived ones when requested. The
// archived filter stays tri-state: nil means both.
func (s *AdminCallService) List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error) {
	calls, err := s.repo.List(ctx, filters, sortp, page)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calls")
	}
	for _, call := range calls {
		if err := validateCall(call); err != nil {
			return nil, err
		}
	}
	return calls, nil
}

// Create registers a new call. The title is mandatory; everything else
// defaults to null. The row the store hands back is re-validated
// before being returned.
func (s *AdminCallService) Create(ctx context.Context, req dto.CreateCallRequest) (*models.Call, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid call payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
	}

	call := models.Call{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Location:     req.Location,
		Institution:  req.Institution,
		Requirements: req.Requirements,
		Deadline:     req.Deadline,
		Link:         req.Link,
	}

	created, err := s.repo.Create(ctx, call)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create call")
	}
	if err := validateCall(*created); err != nil {
		return nil, err
	}

	s.invalidateOptions(ctx)
	return created, nil
}

// Update applies a partial field replacement. Empty payloads are a
// caller error, not a silent no-op, and never reach the store.
func (s *AdminCallService) Update(ctx context.Context, id int64, req dto.UpdateCallRequest) (*models.Call, error) {
	fields := req.Fields()
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyUpdate, "no fields to update")
	}
	if title, ok := fields["title"].(string); ok && strings.TrimSpace(title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
	}
	return s.applyUpdate(ctx, id, fields)
}

// Archive toggles the archival timestamp: now to archive, null to
// unarchive. It is sugar over Update restricted to archivedAt.
func (s *AdminCallService) Archive(ctx context.Context, id int64, unarchive bool) (*models.Call, error) {
	var archivedAt *time.Time
	if !unarchive {
		now := time.Now().UTC()
		archivedAt = &now
	}
	return s.applyUpdate(ctx, id, map[string]interface{}{"archivedAt": archivedAt})
}

func (s *AdminCallService) applyUpdate(ctx context.Context, id int64, fields map[string]interface{}) (*models.Call, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("call %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update call")
	}
	if err := validateCall(*updated); err != nil {
		return nil, err
	}

	s.invalidateOptions(ctx)
	return updated, nil
}

// Export renders the filtered admin listing as CSV or PDF, paging
// through the store up to the configured row ceiling.
func (s *AdminCallService) Export(ctx context.Context, filters models.CallFilters, sortp models.SortParams, format string) ([]byte, string, error) {
	table := export.Table{
		Headers: []string{"ID", "Title", "Type", "Location", "Institution", "Deadline", "Created", "Archived"},
	}

	for offset := 0; offset < s.exportMaxRows; offset += exportPageSize {
		limit := exportPageSize
		if remaining := s.exportMaxRows - offset; remaining < limit {
			limit = remaining
		}
		calls, err := s.repo.List(ctx, filters, sortp, models.PageParams{Offset: offset, Limit: limit})
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export calls")
		}
		for _, call := range calls {
			table.Rows = append(table.Rows, exportRow(call))
		}
		if len(calls) < limit {
			break
		}
	}

	switch format {
	case "", "csv":
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv; charset=utf-8", nil
	case "pdf":
		payload, err := s.pdf.Render(table, "Open Calls")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func exportRow(call models.Call) map[string]string {
	row := map[string]string{
		"ID":      strconv.FormatInt(call.ID, 10),
		"Title":   call.Title,
		"Created": call.CreatedAt.Format("2006-01-02"),
	}
	if call.Type != nil {
		row["Type"] = *call.Type
	}
	if call.Location != nil {
		row["Location"] = *call.Location
	}
	if call.Institution != nil {
		row["Institution"] = *call.Institution
	}
	if call.Deadline != nil {
		row["Deadline"] = call.Deadline.Format("2006-01-02")
	}
	if call.ArchivedAt != nil {
		row["Archived"] = call.ArchivedAt.Format("2006-01-02")
	}
	return row
}

// invalidateOptions drops the cached filter picker payload after a
// mutation so the public pickers converge quickly.
func (s *AdminCallService) invalidateOptions(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, optionsCacheKey)
	}
}
