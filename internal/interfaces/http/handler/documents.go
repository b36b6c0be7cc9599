package handler

import (
	"context"
	"strconv"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentService is the lifecycle every document orchestrator exposes
type DocumentService[T, In any] interface {
	Create(ctx context.Context, actor shared.Actor, in In) (*T, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in In) (*T, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error)
	List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]T, int64, error)
}

// Canceller is implemented by documents that can be cancelled in place
type Canceller[T any] interface {
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error)
}

// DocumentRoutes is the endpoint set of a document handler, whatever its type parameters
type DocumentRoutes interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Cancel(c *gin.Context)
}

// InputRequest is a request body convertible to a service input
type InputRequest[In any] interface {
	ToInput() In
}

// QueryParam is a list filter accepted from the query string
type QueryParam struct {
	Name  string
	Parse func(string) (any, error)
}

// UUIDParam accepts a UUID-valued filter
func UUIDParam(name string) QueryParam {
	return QueryParam{Name: name, Parse: func(s string) (any, error) { return uuid.Parse(s) }}
}

// StringParam accepts a free-form filter
func StringParam(name string) QueryParam {
	return QueryParam{Name: name, Parse: func(s string) (any, error) { return s, nil }}
}

// IntParam accepts an integer filter
func IntParam(name string) QueryParam {
	return QueryParam{Name: name, Parse: func(s string) (any, error) { return strconv.Atoi(s) }}
}

// BoolParam accepts a true/false filter
func BoolParam(name string) QueryParam {
	return QueryParam{Name: name, Parse: func(s string) (any, error) { return strconv.ParseBool(s) }}
}

// DocumentHandler serves the create/read/update/delete/cancel endpoints of one
// document type. Req is the JSON body, Resp the rendered document.
type DocumentHandler[T, In any, Req InputRequest[In], Resp any] struct {
	BaseHandler
	service    DocumentService[T, In]
	toResponse func(*T) Resp
	params     []QueryParam
}

// NewDocumentHandler creates a handler for one document service
func NewDocumentHandler[T, In any, Req InputRequest[In], Resp any](
	service DocumentService[T, In],
	toResponse func(*T) Resp,
	params ...QueryParam,
) *DocumentHandler[T, In, Req, Resp] {
	return &DocumentHandler[T, In, Req, Resp]{service: service, toResponse: toResponse, params: params}
}

// Create posts a new document
func (h *DocumentHandler[T, In, Req, Resp]) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, h.toResponse(doc))
}

// Get returns one document
func (h *DocumentHandler[T, In, Req, Resp]) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.toResponse(doc))
}

// List returns a page of documents
func (h *DocumentHandler[T, In, Req, Resp]) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	if !applyParams(c, &h.BaseHandler, filter, h.params) {
		return
	}

	docs, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.Map(docs, h.toResponse), total, filter.Page, filter.PageSize)
}

// Update replaces the editable content of an open document
func (h *DocumentHandler[T, In, Req, Resp]) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Update(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.toResponse(doc))
}

// Delete removes a document and reverses its ledger effects
func (h *DocumentHandler[T, In, Req, Resp]) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Cancel reverses a document's effects and keeps it as cancelled
func (h *DocumentHandler[T, In, Req, Resp]) Cancel(c *gin.Context) {
	canceller, ok := h.service.(Canceller[T])
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "This document cannot be cancelled")
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := canceller.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.toResponse(doc))
}

// applyParams copies the recognised query filters into filter.Filters
func applyParams(c *gin.Context, h *BaseHandler, filter shared.Filter, params []QueryParam) bool {
	for _, p := range params {
		raw := c.Query(p.Name)
		if raw == "" {
			continue
		}
		v, err := p.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid "+p.Name+" filter")
			return false
		}
		filter.Filters[p.Name] = v
	}
	return true
}
