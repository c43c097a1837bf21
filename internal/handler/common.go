package handler

import (
	"errors"
	"net/http"
	"time"

	"pharmacy/internal/service"
	"pharmacy/pkg/response"

	"github.com/gin-gonic/gin"
)

// Guards are the role checks routes attach per endpoint
type Guards struct {
	Staff gin.HandlerFunc // Admin or Pharmacist
	Admin gin.HandlerFunc
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductNotFound):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserDisabled):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		response.Fail(c, status, "Internal server error")
		return
	}
	response.Fail(c, status, err.Error())
}

func badRequest(c *gin.Context, msg string) {
	response.Fail(c, http.StatusBadRequest, msg)
}

const queryDateLayout = "2006-01-02"

// dateRange reads startDate/endDate (YYYY-MM-DD) as days in loc, the zone reports
// bucket by. endDate covers the whole day.
func dateRange(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.ParseInLocation(queryDateLayout, raw, loc)
		if err != nil {
			return nil, nil, errors.New("startDate must be formatted as YYYY-MM-DD")
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.ParseInLocation(queryDateLayout, raw, loc)
		if err != nil {
			return nil, nil, errors.New("endDate must be formatted as YYYY-MM-DD")
		}
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &t
	}
	return start, end, nil
}
