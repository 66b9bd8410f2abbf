package dto

import (
	"time"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Data     any           `json:"data,omitempty"`
	Metadata *PageMetadata `json:"metadata,omitempty"`
}

// PageMetadata carries pagination details for list responses.
type PageMetadata struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	PageSize    int   `json:"pageSize"`
}

// OK builds a success envelope without pagination.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Paged builds a success envelope with pagination metadata derived from the
// requested page and the total row count.
func Paged(message string, data any, p model.Pagination, total int64) Envelope {
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Metadata: &PageMetadata{
			CurrentPage: p.Page,
			TotalPages:  pages,
			TotalItems:  total,
			PageSize:    p.Size,
		},
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}
