package dto

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kolkore/open-calls-api/internal/models"
)

// Pagination bounds for call listings.
const (
	DefaultLimit = 30
	MaxLimit     = 200
)

// ParseFilters decodes filter dimensions from query parameters. Parsing
// is deliberately lenient: filters arrive as untrusted URL state, so a
// malformed value degrades to "no filter on that dimension" instead of
// failing the request. Each dimension falls back independently.
func ParseFilters(q url.Values) models.CallFilters {
	f := models.CallFilters{
		Search:       strings.TrimSpace(q.Get("search")),
		Types:        parseMulti(q["type"]),
		Locations:    parseMulti(q["location"]),
		Institutions: parseMulti(q["institution"]),
	}
	f.CreatedAt = models.TimeRange{
		After:  parseTime(q.Get("createdAfter")),
		Before: parseTime(q.Get("createdBefore")),
	}
	f.Deadline = models.TimeRange{
		After:  parseTime(q.Get("deadlineAfter")),
		Before: parseTime(q.Get("deadlineBefore")),
	}
	if raw := q.Get("archived"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Archived = &v
		}
	}
	return f
}

// ParseSort decodes sort parameters, each field falling back to its
// default independently: by=createdAt, order=desc.
func ParseSort(q url.Values) models.SortParams {
	s := models.SortParams{By: models.SortByCreatedAt, Order: models.SortDesc}
	switch models.SortField(q.Get("sortBy")) {
	case models.SortByDeadline:
		s.By = models.SortByDeadline
	case models.SortByCreatedAt:
		s.By = models.SortByCreatedAt
	}
	switch models.SortOrder(strings.ToLower(q.Get("sortOrder"))) {
	case models.SortAsc:
		s.Order = models.SortAsc
	case models.SortDesc:
		s.Order = models.SortDesc
	}
	return s
}

// ParsePage decodes pagination, clamping rather than rejecting
// out-of-range input: offset >= 0 (default 0), limit in [1,MaxLimit]
// (default DefaultLimit).
func ParsePage(q url.Values) models.PageParams {
	p := models.PageParams{Offset: 0, Limit: DefaultLimit}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			switch {
			case v < 1:
				p.Limit = 1
			case v > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = v
			}
		}
	}
	return p
}

// parseMulti accepts repeated parameters and comma-separated lists,
// dropping empty entries.
func parseMulti(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// parseTime accepts RFC 3339 timestamps and plain dates; anything else
// parses as "unset".
func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}

// CreateCallRequest is the admin create payload. Only the title is
// required; every other field defaults to null.
type CreateCallRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  *string    `json:"description"`
	Type         *string    `json:"type"`
	Location     *string    `json:"location"`
	Institution  *string    `json:"institution"`
	Requirements []string   `json:"requirements"`
	Deadline     *time.Time `json:"deadline"`
	Link         *string    `json:"link"`
}

// UpdateCallRequest is the admin partial-update payload. Absent keys
// leave the column untouched; explicit nulls clear it. createdAt is not
// part of the writable set at all.
type UpdateCallRequest struct {
	Title        Optional[string]     `json:"title"`
	Description  Optional[*string]    `json:"description"`
	Type         Optional[*string]    `json:"type"`
	Location     Optional[*string]    `json:"location"`
	Institution  Optional[*string]    `json:"institution"`
	Requirements Optional[[]string]   `json:"requirements"`
	Deadline     Optional[*time.Time] `json:"deadline"`
	Link         Optional[*string]    `json:"link"`
	ArchivedAt   Optional[*time.Time] `json:"archivedAt"`
}

// Fields flattens the payload into the set of fields actually present.
func (r UpdateCallRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title.Set {
		fields["title"] = r.Title.Value
	}
	if r.Description.Set {
		fields["description"] = r.Description.Value
	}
	if r.Type.Set {
		fields["type"] = r.Type.Value
	}
	if r.Location.Set {
		fields["location"] = r.Location.Value
	}
	if r.Institution.Set {
		fields["institution"] = r.Institution.Value
	}
	if r.Requirements.Set {
		fields["requirements"] = r.Requirements.Value
	}
	if r.Deadline.Set {
		fields["deadline"] = r.Deadline.Value
	}
	if r.Link.Set {
		fields["link"] = r.Link.Value
	}
	if r.ArchivedAt.Set {
		fields["archivedAt"] = r.ArchivedAt.Value
	}
	return fields
}

// ArchiveCallRequest toggles a call's archived state.
type ArchiveCallRequest struct {
	Unarchive bool `json:"unarchive"`
}
