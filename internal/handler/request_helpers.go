package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// pageQuery is the raw offset/limit pair from the query string
type pageQuery struct {
	Offset string `validate:"omitempty,number"`
	Limit  string `validate:"omitempty,number"`
}

// idParam is a numeric path parameter
type idParam struct {
	ID string `validate:"required,snowflake"`
}

// ParsePage reads offset and limit, defaulting to the first page of
// domain.DefaultPageSize. On failure the response has already been written.
func ParsePage(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	q := pageQuery{
		Offset: r.URL.Query().Get("offset"),
		Limit:  r.URL.Query().Get("limit"),
	}
	if err := GetValidator().ValidateStruct(q); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return domain.Page{}, false
	}

	page := domain.FirstPage(domain.DefaultPageSize)
	var err error
	if q.Offset != "" {
		page.Offset, err = strconv.Atoi(q.Offset)
	}
	if err == nil && q.Limit != "" {
		page.Limit, err = strconv.Atoi(q.Limit)
	}
	if err == nil {
		err = page.Validate()
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrInvalidPage, err)
		respondServiceError(w, err)
		return domain.Page{}, false
	}
	return page, true
}

// ParseIDParam reads a positive numeric chi path parameter. On failure the
// response has already been written.
func ParseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	p := idParam{ID: chi.URLParam(r, name)}
	if err := GetValidator().ValidateStruct(p); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidID, name))
		return 0, false
	}
	id, _ := strconv.ParseInt(p.ID, 10, 64)
	return id, true
}
