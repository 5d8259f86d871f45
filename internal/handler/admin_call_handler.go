package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kolkore/open-calls-api/internal/dto"
	"github.com/kolkore/open-calls-api/internal/models"
	"github.com/kolkore/open-calls-api/internal/service"
	appErrors "github.com/kolkore/open-calls-api/pkg/errors"
	"github.com/kolkore/open-calls-api/pkg/response"
)

// AdminCallHandler exposes the privileged call endpoints.
type AdminCallHandler struct {
	service *service.AdminCallService
}

// NewAdminCallHandler constructs an admin call handler.
func NewAdminCallHandler(svc *service.AdminCallService) *AdminCallHandler {
	return &AdminCallHandler{service: svc}
}

// List godoc
// @Summary List calls for administration
// @Description List calls including archived ones, full record shape
// @Tags Admin Calls
// @Produce json
// @Param archived query bool false "true = archived only, false = active only, absent = both"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/calls [get]
func (h *AdminCallHandler) List(c *gin.Context) {
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

// Create godoc
// @Summary Create a call
// @Tags Admin Calls
// @Accept json
// @Produce json
// @Param payload body dto.CreateCallRequest true "Call payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/calls [post]
func (h *AdminCallHandler) Create(c *gin.Context) {
	var req dto.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid call payload"))
		return
	}

	call, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, call)
}

// Update godoc
// @Summary Partially update a call
// @Tags Admin Calls
// @Accept json
// @Produce json
// @Param id path int true "Call ID"
// @Param payload body dto.UpdateCallRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/calls/{id} [patch]
func (h *AdminCallHandler) Update(c *gin.Context) {
	id, ok := callID(c)
	if !ok {
		return
	}

	var req dto.UpdateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	call, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, call, nil)
}

// Archive godoc
// @Summary Archive or unarchive a call
// @Tags Admin Calls
// @Accept json
// @Produce json
// @Param id path int true "Call ID"
// @Param payload body dto.ArchiveCallRequest true "Archive toggle"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/calls/{id}/archive [post]
func (h *AdminCallHandler) Archive(c *gin.Context) {
	id, ok := callID(c)
	if !ok {
		return
	}

	var req dto.ArchiveCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid archive payload"))
		return
	}

	call, err := h.service.Archive(c.Request.Context(), id, req.Unarchive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, call, nil)
}

// Export godoc
// @Summary Export the filtered call listing
// @Tags Admin Calls
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} byte
// @Security BearerAuth
// @Router /admin/calls/export [get]
func (h *AdminCallHandler) Export(c *gin.Context) {
	query := c.Request.URL.Query()
	filters := dto.ParseFilters(query)
	sortp := dto.ParseSort(query)
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.service.Export(c.Request.Context(), filters, sortp, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calls.`+format+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func callID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid call id"))
		return 0, false
	}
	return id, true
}
