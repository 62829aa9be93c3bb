package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// List query parameters that are not entity filters
const (
	queryPage     = "page"
	queryPageSize = "page_size"
	querySearch   = "search"
	queryOrdering = "ordering"
)

// parseListFilter reads paging, search, ordering and equality filters from
// the query string. Every other parameter is passed on as a filter.
func parseListFilter(c *gin.Context) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	var details []shared.FieldError

	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		raw := strings.TrimSpace(values[0])
		switch key {
		case queryPage:
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				details = append(details, shared.FieldError{Field: key, Message: "Must be a positive integer"})
				continue
			}
			filter.Page = n
		case queryPageSize:
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				details = append(details, shared.FieldError{Field: key, Message: "Must be a positive integer"})
				continue
			}
			filter.PageSize = n
		case querySearch:
			filter.Search = raw
		case queryOrdering:
			filter.Ordering = raw
		default:
			filter.Filters[key] = raw
		}
	}
	if len(details) > 0 {
		return shared.Filter{}, shared.NewValidationError(details...)
	}
	return filter, nil
}

// parseID reads the :id path parameter. An id that is not a UUID cannot
// name a record, so it is reported as not found.
func parseID(c *gin.Context, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.NewNotFoundError(resource)
	}
	return id, nil
}

// parseDays reads the days query parameter, falling back to def
func parseDays(c *gin.Context, def int) (int, error) {
	raw, ok := c.GetQuery("days")
	if !ok || raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError(shared.FieldError{Field: "days", Message: "A valid integer is required"})
	}
	return days, nil
}

// bindBody decodes the JSON body into target and validates it. An empty
// body validates the zero value so every required field is reported.
func bindBody(c *gin.Context, target any) error {
	err := c.ShouldBindJSON(target)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(target)
	}
	return bindingError(err)
}

// mergeBody decodes raw onto target, leaving absent fields untouched, then
// validates the merged value
func mergeBody(raw []byte, target any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 {
		if raw[0] != '{' {
			return shared.NewDomainError(shared.CodeInvalidInput, "Request body must be a JSON object")
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return bindingError(err)
		}
	}
	return bindingError(binding.Validator.ValidateStruct(target))
}

// bindingError turns a decode or validation failure into a domain error
func bindingError(err error) error {
	if err == nil {
		return nil
	}
	if details, ok := middleware.ValidationDetails(err); ok {
		fields := make([]shared.FieldError, len(details))
		for i, d := range details {
			fields[i] = shared.FieldError{Field: d.Field, Message: d.Message}
		}
		return shared.NewValidationError(fields...)
	}
	return shared.NewDomainError(shared.CodeInvalidInput, "JSON parse error - "+err.Error())
}
