package dto

import (
	"time"

	"github.com/propertyhub/backend/internal/domain/shared"
)

// Response is the envelope of every JSON body the API writes. Exactly one of
// Data and Error is set; Meta accompanies paged lists.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo carries the machine readable code clients branch on. Details
// holds the per-category reasons of DELETE_BLOCKED and similar codes;
// Fields holds request validation failures.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []string           `json:"details,omitempty"`
	Fields    []ValidationDetail `json:"fields,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewPaginatedResponse unwraps a repository page into items plus Meta
func NewPaginatedResponse[T any](page shared.Paginated[T]) Response {
	meta := Meta{Total: page.Total, Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages}
	return Response{Success: true, Data: page.Items, Meta: &meta}
}

func NewErrorResponse(code, message, requestID string, details ...string) Response {
	return Response{Error: &ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}}
}

// NewDomainErrorResponse passes the domain code and details through
// unchanged together with the status GetHTTPStatus assigns to the code
func NewDomainErrorResponse(err *shared.DomainError, requestID string) (int, Response) {
	return GetHTTPStatus(err.Code), NewErrorResponse(err.Code, err.Message, requestID, err.Details...)
}

func NewValidationErrorResponse(message, requestID string, fields []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidation, message, requestID)
	resp.Error.Fields = fields
	return resp
}
