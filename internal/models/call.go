package models

import "time"

// Call represents a persisted open-call row: one artist opportunity
// (residency, grant, exhibition) on the board.
type Call struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Type         *string    `json:"type"`
	Location     *string    `json:"location"`
	Institution  *string    `json:"institution"`
	Requirements []string   `json:"requirements"`
	Deadline     *time.Time `json:"deadline"`
	Link         *string    `json:"link"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
	ArchivedAt   *time.Time `json:"archivedAt"`
}

// PublicCall is the call shape exposed to unauthenticated clients. The
// archival timestamp is omitted from the type, not null-masked.
type PublicCall struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Type         *string    `json:"type"`
	Location     *string    `json:"location"`
	Institution  *string    `json:"institution"`
	Requirements []string   `json:"requirements"`
	Deadline     *time.Time `json:"deadline"`
	Link         *string    `json:"link"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

// Public strips the admin-only fields from a call.
func (c Call) Public() PublicCall {
	return PublicCall{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Type:         c.Type,
		Location:     c.Location,
		Institution:  c.Institution,
		Requirements: c.Requirements,
		Deadline:     c.Deadline,
		Link:         c.Link,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// TimeRange bounds a time column inclusively on either side.
type TimeRange struct {
	After  *time.Time
	Before *time.Time
}

// CallFilters captures every independently optional filter dimension.
// A zero value imposes no constraint on that dimension.
type CallFilters struct {
	Search       string
	Types        []string
	Locations    []string
	Institutions []string
	CreatedAt    TimeRange
	Deadline     TimeRange
	// Archived is tri-state: nil = both, true = archived only,
	// false = active only. The public view always forces false.
	Archived *bool
}

// SortField enumerates the sortable call columns.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDeadline  SortField = "deadline"
)

// SortOrder enumerates sort directions.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortParams selects the single-key ordering of a listing.
type SortParams struct {
	By    SortField
	Order SortOrder
}

// PageParams applies offset/limit pagination after ordering.
type PageParams struct {
	Offset int
	Limit  int
}

// FilterOptions holds the distinct dimension values used to populate
// the public filter pickers.
type FilterOptions struct {
	Types        []string `json:"types"`
	Locations    []string `json:"locations"`
	Institutions []string `json:"institutions"`
}
