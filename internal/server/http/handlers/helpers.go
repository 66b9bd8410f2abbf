package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/server/http/dto"
)

const defaultPageSize = 10

// pagination reads page/size/direction query parameters and clamps them.
func pagination(c *gin.Context) model.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	direction := model.SortDirection(strings.ToUpper(c.Query("direction")))
	return model.Pagination{Page: page, Size: size, Direction: direction}.Normalize(defaultPageSize)
}

// pathID parses a numeric path parameter, writing a 400 response on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		writeErrorStatus(c, http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// writeBindError maps a request binding failure to a 400 response, with
// per-field messages when the failure came from struct validation.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonField(fe.Field())] = fieldMessage(fe)
		}
		status := http.StatusBadRequest
		c.AbortWithStatusJSON(status, dto.ErrorResponse{
			Timestamp:        time.Now().UTC(),
			Status:           status,
			Error:            http.StatusText(status),
			Message:          "validation failed",
			ValidationErrors: fields,
		})
		return
	}
	writeErrorStatus(c, http.StatusBadRequest, "malformed request body")
}

// writeError maps a domain error to its HTTP status and error body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		writeErrorStatus(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrConflict):
		writeErrorStatus(c, http.StatusConflict, err.Error())
	case errors.Is(err, domainErrors.ErrInsufficientStock),
		errors.Is(err, domainErrors.ErrIllegalState),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrInvalidPrice),
		errors.Is(err, domainErrors.ErrEmptyOrder):
		writeErrorStatus(c, http.StatusBadRequest, err.Error())
	default:
		writeErrorStatus(c, http.StatusInternalServerError, "internal server error")
	}
}

func writeErrorStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

// jsonField lowers the first rune of a struct field name to match its JSON key.
func jsonField(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	default:
		return "is invalid"
	}
}
