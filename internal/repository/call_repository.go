package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kolkore/open-calls-api/internal/models"
)

// CallRepository provides persistence for open-call records. Time
// columns are stored as integer epoch milliseconds and requirements as
// a JSON-encoded text column.
type CallRepository struct {
	db *sqlx.DB
}

// NewCallRepository constructs a CallRepository around an injected
// database handle.
func NewCallRepository(db *sqlx.DB) *CallRepository {
	return &CallRepository{db: db}
}

const callColumns = "id, title, description, type, location, institution, requirements, deadline, link, created_at, updated_at, archived_at"

// callRow mirrors the calls table layout.
type callRow struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	Description  sql.NullString `db:"description"`
	Type         sql.NullString `db:"type"`
	Location     sql.NullString `db:"location"`
	Institution  sql.NullString `db:"institution"`
	Requirements sql.NullString `db:"requirements"`
	Deadline     sql.NullInt64  `db:"deadline"`
	Link         sql.NullString `db:"link"`
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    sql.NullInt64  `db:"updated_at"`
	ArchivedAt   sql.NullInt64  `db:"archived_at"`
}

func (row callRow) toModel() (models.Call, error) {
	call := models.Call{
		ID:          row.ID,
		Title:       row.Title,
		Description: nullableString(row.Description),
		Type:        nullableString(row.Type),
		Location:    nullableString(row.Location),
		Institution: nullableString(row.Institution),
		Link:        nullableString(row.Link),
		Deadline:    nullableTime(row.Deadline),
		CreatedAt:   millisToTime(row.CreatedAt),
		UpdatedAt:   nullableTime(row.UpdatedAt),
		ArchivedAt:  nullableTime(row.ArchivedAt),
	}
	if row.Requirements.Valid {
		// null means "not specified"; "[]" is an explicit empty list.
		reqs := []string{}
		if err := json.Unmarshal([]byte(row.Requirements.String), &reqs); err != nil {
			return models.Call{}, fmt.Errorf("decode requirements for call %d: %w", row.ID, err)
		}
		call.Requirements = reqs
	}
	return call, nil
}

// List returns the calls matching the given filters in the requested
// order and page. Only the filter dimensions actually present
// contribute predicates; id breaks ties on the sort key so pagination
// stays stable across pages.
func (r *CallRepository) List(ctx context.Context, filters models.CallFilters, sortp models.SortParams, page models.PageParams) ([]models.Call, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title LIKE $%d", len(args)+1))
		args = append(args, "%"+filters.Search+"%")
	}
	if len(filters.Types) > 0 {
		conditions = append(conditions, fmt.Sprintf("type = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filters.Types))
	}
	if len(filters.Locations) > 0 {
		conditions = append(conditions, fmt.Sprintf("location = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filters.Locations))
	}
	if len(filters.Institutions) > 0 {
		conditions = append(conditions, fmt.Sprintf("institution = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filters.Institutions))
	}
	if filters.CreatedAt.After != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, filters.CreatedAt.After.UnixMilli())
	}
	if filters.CreatedAt.Before != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, filters.CreatedAt.Before.UnixMilli())
	}
	if filters.Deadline.After != nil {
		conditions = append(conditions, fmt.Sprintf("deadline >= $%d", len(args)+1))
		args = append(args, filters.Deadline.After.UnixMilli())
	}
	if filters.Deadline.Before != nil {
		conditions = append(conditions, fmt.Sprintf("deadline <= $%d", len(args)+1))
		args = append(args, filters.Deadline.Before.UnixMilli())
	}
	if filters.Archived != nil {
		if *filters.Archived {
			conditions = append(conditions, "archived_at IS NOT NULL")
		} else {
			conditions = append(conditions, "archived_at IS NULL")
		}
	}

	column := "created_at"
	if sortp.By == models.SortByDeadline {
		column = "deadline"
	}
	order := "DESC"
	if sortp.Order == models.SortAsc {
		order = "ASC"
	}

	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	limit := page.Limit
	if limit < 1 {
		limit = 30
	}
	if limit > 200 {
		limit = 200
	}

	query := fmt.Sprintf("SELECT %s FROM calls WHERE %s ORDER BY %s %s, id %s LIMIT %d OFFSET %d",
		callColumns, strings.Join(conditions, " AND "), column, order, order, limit, offset)

	var rows []callRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}

	calls := make([]models.Call, 0, len(rows))
	for _, row := range rows {
		call, err := row.toModel()
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// FilterOptions returns the distinct non-empty values present in the
// type, location and institution columns.
func (r *CallRepository) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts := &models.FilterOptions{}
	dimensions := []struct {
		column string
		dest   *[]string
	}{
		{"type", &opts.Types},
		{"location", &opts.Locations},
		{"institution", &opts.Institutions},
	}
	for _, dim := range dimensions {
		query := fmt.Sprintf("SELECT DISTINCT %s FROM calls WHERE %s IS NOT NULL AND %s <> ''", dim.column, dim.column, dim.column)
		if err := r.db.SelectContext(ctx, dim.dest, query); err != nil {
			return nil, fmt.Errorf("distinct %s options: %w", dim.column, err)
		}
	}
	return opts, nil
}

// GetByID fetches a single call.
func (r *CallRepository) GetByID(ctx context.Context, id int64) (*models.Call, error) {
	query := fmt.Sprintf("SELECT %s FROM calls WHERE id = $1", callColumns)
	var row callRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	call, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// Create inserts a new call. The store assigns the id; created_at and
// updated_at are both stamped with the current instant.
func (r *CallRepository) Create(ctx context.Context, call models.Call) (*models.Call, error) {
	now := time.Now().UTC()
	requirements, err := requirementsValue(call.Requirements)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO calls (title, description, type, location, institution, requirements, deadline, link, created_at, updated_at, archived_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING %s`, callColumns)

	var row callRow
	if err := r.db.GetContext(ctx, &row, query,
		call.Title,
		call.Description,
		call.Type,
		call.Location,
		call.Institution,
		requirements,
		millisOrNil(call.Deadline),
		call.Link,
		now.UnixMilli(),
		now.UnixMilli(),
		nil,
	); err != nil {
		return nil, fmt.Errorf("create call: %w", err)
	}

	created, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// updatableColumns maps payload field names to their columns.
// created_at is deliberately absent: it is never writable.
var updatableColumns = map[string]string{
	"title":        "title",
	"description":  "description",
	"type":         "type",
	"location":     "location",
	"institution":  "institution",
	"requirements": "requirements",
	"deadline":     "deadline",
	"link":         "link",
	"archivedAt":   "archived_at",
}

// Update applies a partial field replacement to the call with the
// given id, always refreshing updated_at. It returns sql.ErrNoRows
// when no such call exists. The caller guarantees fields is non-empty.
func (r *CallRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Call, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+2)
	for _, name := range names {
		column, ok := updatableColumns[name]
		if !ok {
			return nil, fmt.Errorf("update calls: field %q is not writable", name)
		}
		value, err := columnValue(name, fields[name])
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC().UnixMilli())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE calls SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), callColumns)

	var row callRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update call %d: %w", id, err)
	}

	updated, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func columnValue(name string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case *string:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case []string:
		return requirementsValue(v)
	case *time.Time:
		return millisOrNil(v), nil
	default:
		return nil, fmt.Errorf("update calls: unsupported value for field %q", name)
	}
}

func requirementsValue(reqs []string) (interface{}, error) {
	if reqs == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("encode requirements: %w", err)
	}
	return string(encoded), nil
}

func millisOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullableTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := millisToTime(v.Int64)
	return &t
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
