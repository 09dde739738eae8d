package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"facilities/internal/domain"
	"facilities/internal/export"
	"facilities/internal/http/middleware"
	"facilities/internal/query"
	"facilities/internal/services"
	"facilities/internal/table"
	"facilities/internal/utils"
)

// resource binds one entity's service to the shared list / detail / mutation / export handlers.
type resource[T, In, Patch any] struct {
	name    string
	schema  func() query.Schema
	list    func(context.Context, query.Query) (services.Listing[T], error)
	get     func(context.Context, string) (T, error)
	create  func(context.Context, In, string) (domain.MutationResult, error)
	update  func(context.Context, string, Patch, string) (domain.MutationResult, error)
	delete  func(context.Context, []string, string) (domain.MutationResult, error)
	columns func(context.Context) ([]table.Column[T], error)
}

// List serves GET /api/E with the query-state params.
func (r resource[T, In, Patch]) List(c *gin.Context) {
	q := query.Decode(c.Request.URL.Query(), r.schema())
	out, err := r.list(reqCtx(c), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (r resource[T, In, Patch]) Get(c *gin.Context) {
	row, err := r.get(reqCtx(c), paramID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (r resource[T, In, Patch]) Create(c *gin.Context) {
	var in In
	var p pathBody
	if !BindJSONOrError(c, &in) || !BindJSONOrError(c, &p) {
		return
	}
	res, err := r.create(reqCtx(c), in, p.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (r resource[T, In, Patch]) Update(c *gin.Context) {
	var patch Patch
	var p pathBody
	if !BindJSONOrError(c, &patch) || !BindJSONOrError(c, &p) {
		return
	}
	res, err := r.update(reqCtx(c), paramID(c), patch, p.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete serves POST /api/E/delete with {ids, path}.
func (r resource[T, In, Patch]) Delete(c *gin.Context) {
	var body idsBody
	if !BindJSONOrError(c, &body) {
		return
	}
	res, err := r.delete(reqCtx(c), body.IDs, body.Path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Export serves GET /api/E/export. With ids it exports those rows in the given order,
// otherwise the page the list params describe.
func (r resource[T, In, Patch]) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "format", Msg: "must be csv, xlsx or pdf"})
		return
	}
	ctx := reqCtx(c)

	var rows []T
	if ids := utils.SplitList(c.Query("ids")); len(ids) > 0 {
		rows = make([]T, 0, len(ids))
		for _, id := range ids {
			row, err := r.get(ctx, id)
			if domain.IsNotFound(err) {
				continue
			}
			if err != nil {
				RespondDomainError(c, err)
				return
			}
			rows = append(rows, row)
		}
	} else {
		out, err := r.list(ctx, query.Decode(c.Request.URL.Query(), r.schema()))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		rows = out.Data
	}

	cols, err := r.columns(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	cols = table.Pick(table.DataColumns(cols, nil), utils.SplitList(c.Query("columns")))

	var buf bytes.Buffer
	if err := export.Write(&buf, format, cols, rows); err != nil {
		RespondDomainError(c, err)
		return
	}
	name := strings.TrimSpace(c.Query("filename"))
	if name == "" {
		name = r.name
	}
	utils.LogEvent(middleware.GetRequestID(c), r.name, "export", string(format))
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(name, format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// statusHandler serves POST /api/E/status with {ids, status, path}.
func statusHandler[S ~string](set func(context.Context, []string, S, string) (domain.MutationResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body statusBody
		if !BindJSONOrError(c, &body) {
			return
		}
		res, err := set(reqCtx(c), body.IDs, S(strings.TrimSpace(body.Status)), body.Path)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (r resource[T, In, Patch]) mount(g *gin.RouterGroup, write ...gin.HandlerFunc) {
	g.GET("", r.List)
	g.GET("/export", r.Export)
	g.GET("/:id", r.Get)
	g.POST("", chain(write, r.Create)...)
	g.PATCH("/:id", chain(write, r.Update)...)
	g.POST("/delete", chain(write, r.Delete)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}
