package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/service"
	"github.com/shinyyama/kidtokid/internal/storage"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	Stage          string `json:"stage,omitempty"`
	Outcome        string `json:"outcome,omitempty"`
	ListingID      string `json:"listingId,omitempty"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// writeError maps a service error onto the error envelope.
func writeError(c echo.Context, err error) error {
	var (
		ve *service.ValidationError
		pe *service.PublishError
		he *transport.HTTPError
		ue *storage.UploadError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", ve.Error()))
	case errors.As(err, &pe):
		resp := NewErrorResponse("publish_failed", pe.Error())
		resp.Error.Stage = string(pe.Stage)
		resp.Error.Outcome = string(pe.Outcome())
		resp.Error.ListingID = pe.ListingID
		if errors.As(err, &he) {
			resp.Error.UpstreamStatus = he.StatusCode
		} else if errors.As(err, &ue) {
			resp.Error.UpstreamStatus = ue.StatusCode
		}
		return c.JSON(http.StatusBadGateway, resp)
	case errors.As(err, &he):
		resp := NewErrorResponse("gateway_error", he.Error())
		resp.Error.UpstreamStatus = he.StatusCode
		return c.JSON(http.StatusBadGateway, resp)
	case errors.Is(err, repository.ErrDBNotReady):
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("journal_unavailable", "publication journal is not configured"))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	}
	c.Logger().Errorf("unhandled error: %v", err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal error"))
}
