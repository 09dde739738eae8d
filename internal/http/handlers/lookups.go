package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"facilities/internal/domain/models"
	"facilities/internal/http/middleware"
	"facilities/internal/utils"
)

// GET /api/lookups
func (h *Handlers) LookupKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.Svc.Lookups.Keys()})
}

// GET /api/lookups/:key
func (h *Handlers) Lookup(c *gin.Context) {
	opts, err := h.Svc.Lookups.Get(reqCtx(c), c.Param("key"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/sections?departmentId=
func (h *Handlers) GetSections(c *gin.Context) {
	rows, err := h.Svc.Sections.List(reqCtx(c), c.Query("departmentId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handlers) CreateSection(c *gin.Context) {
	var in models.SectionInput
	var p pathBody
	if !BindJSONOrError(c, &in) || !BindJSONOrError(c, &p) {
		return
	}
	res, err := h.Svc.Sections.Create(reqCtx(c), in, p.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handlers) DeleteSections(c *gin.Context) {
	var body idsBody
	if !BindJSONOrError(c, &body) {
		return
	}
	res, err := h.Svc.Sections.Delete(reqCtx(c), body.IDs, body.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.Svc.Categories.List(reqCtx(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handlers) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	var p pathBody
	if !BindJSONOrError(c, &in) || !BindJSONOrError(c, &p) {
		return
	}
	res, err := h.Svc.Categories.Create(reqCtx(c), in, p.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handlers) DeleteCategories(c *gin.Context) {
	var body idsBody
	if !BindJSONOrError(c, &body) {
		return
	}
	res, err := h.Svc.Categories.Delete(reqCtx(c), body.IDs, body.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetRequestSlip returns the printable slip of one request (inline PDF).
func (h *Handlers) GetRequestSlip(c *gin.Context) {
	pdf, filename, err := h.Svc.Docs.RequestSlip(reqCtx(c), paramID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "docs", "slip_served", filename)
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
