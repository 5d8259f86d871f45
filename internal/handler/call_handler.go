package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kolkore/open-calls-api/internal/dto"
	"github.com/kolkore/open-calls-api/internal/models"
	"github.com/kolkore/open-calls-api/internal/service"
	"github.com/kolkore/open-calls-api/pkg/response"
)

// CallHandler exposes the public board endpoints.
type CallHandler struct {
	service *service.CallService
}

// NewCallHandler constructs a call handler.
func NewCallHandler(svc *service.CallService) *CallHandler {
	return &CallHandler{service: svc}
}

// List godoc
// @Summary List open calls
// @Description List active calls with filtering, sorting and pagination
// @Tags Calls
// @Produce json
// @Param search query string false "Substring match on title"
// @Param type query []string false "Filter by type" collectionFormat(multi)
// @Param location query []string false "Filter by location" collectionFormat(multi)
// @Param institution query []string false "Filter by institution" collectionFormat(multi)
// @Param createdAfter query string false "Inclusive lower bound on creation time (RFC 3339)"
// @Param createdBefore query string false "Inclusive upper bound on creation time (RFC 3339)"
// @Param deadlineAfter query string false "Inclusive lower bound on deadline (RFC 3339)"
// @Param deadlineBefore query string false "Inclusive upper bound on deadline (RFC 3339)"
// @Param sortBy query string false "createdAt or deadline"
// @Param sortOrder query string false "asc or desc"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (1-200)"
// @Success 200 {object} response.Envelope
// @Router /calls [get]
func (h *CallHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()
	filters := dto.ParseFilters(query)
	sortp := dto.ParseSort(query)
	page := dto.ParsePage(query)

	calls, err := h.service.List(c.Request.Context(), filters, sortp, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Offset: page.Offset, Limit: page.Limit, Count: len(calls)}
	response.JSON(c, http.StatusOK, calls, pagination)
}

// Options godoc
// @Summary List filter options
// @Description Distinct type, location and institution values for the filter pickers
// @Tags Calls
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calls/options [get]
func (h *CallHandler) Options(c *gin.Context) {
	opts, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opts, nil)
}
