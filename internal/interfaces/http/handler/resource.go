package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/application/crud"
)

// ResourceHandler serves the list, get, create, update, patch and delete
// routes of one resource
type ResourceHandler[T any, P crud.Record[T]] struct {
	BaseHandler
	service *crud.Service[T, P]
}

// NewResourceHandler creates a handler over service
func NewResourceHandler[T any, P crud.Record[T]](service *crud.Service[T, P]) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{service: service}
}

// Register mounts the resource routes on rg under path
func (h *ResourceHandler[T, P]) Register(rg *gin.RouterGroup, path string) {
	g := rg.Group(path)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Patch)
	g.DELETE("/:id", h.Delete)
}

// List returns one page of records
// GET /{resource}?page=&page_size=&search=&ordering=&{filter}=
func (h *ResourceHandler[T, P]) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), getActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one record
// GET /{resource}/:id
func (h *ResourceHandler[T, P]) Get(c *gin.Context) {
	id, err := parseID(c, h.service.Resource())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	entity, err := h.service.Get(c.Request.Context(), getActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// Create stores a new record
// POST /{resource}
func (h *ResourceHandler[T, P]) Create(c *gin.Context) {
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		h.HandleError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), getActor(c), entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update replaces a record
// PUT /{resource}/:id
func (h *ResourceHandler[T, P]) Update(c *gin.Context) {
	id, err := parseID(c, h.service.Resource())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), getActor(c), id, entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Patch merges the request body onto a record
// PATCH /{resource}/:id
func (h *ResourceHandler[T, P]) Patch(c *gin.Context) {
	id, err := parseID(c, h.service.Resource())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		h.HandleError(c, bindingError(err))
		return
	}

	updated, err := h.service.Patch(c.Request.Context(), getActor(c), id, func(next *T) error {
		return mergeBody(raw, next)
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete removes a record
// DELETE /{resource}/:id
func (h *ResourceHandler[T, P]) Delete(c *gin.Context) {
	id, err := parseID(c, h.service.Resource())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), getActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
