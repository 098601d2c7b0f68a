package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/prompt"
	"github.com/shinyyama/kidtokid/internal/service"
)

type DeliveryHandler struct {
	svc service.DeliveryService
}

func NewDeliveryHandler(svc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

type DeliveryBoardResponse struct {
	Deliveries []model.Delivery         `json:"deliveries"`
	Summary    service.DeliverySummary `json:"summary"`
}

type TransitionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type TransitionResponse struct {
	Applied bool                   `json:"applied"`
	Board   *DeliveryBoardResponse `json:"board,omitempty"`
	// Stale is set when the change was applied but the list could not be
	// reloaded.
	Stale bool `json:"stale,omitempty"`
}

func (h *DeliveryHandler) List(c echo.Context) error {
	board, err := h.svc.Load(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBoardResponse(board))
}

// Transition applies a status change. The comment in the body stands in for
// the operator prompt: a comment-gated status with no comment is abandoned.
func (h *DeliveryHandler) Transition(c echo.Context) error {
	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	res, err := h.svc.Transition(c.Request().Context(), c.Param("id"), model.DeliveryStatus(req.Status), prompt.Static(req.Comment))
	if err != nil {
		if res != nil && res.Applied {
			c.Logger().Warnf("delivery %s: %v", c.Param("id"), err)
			return c.JSON(http.StatusOK, TransitionResponse{Applied: true, Stale: true})
		}
		return writeError(c, err)
	}
	resp := TransitionResponse{Applied: res.Applied}
	if res.Board != nil {
		b := toBoardResponse(res.Board)
		resp.Board = &b
	}
	return c.JSON(http.StatusOK, resp)
}

func toBoardResponse(b *service.DeliveryBoard) DeliveryBoardResponse {
	return DeliveryBoardResponse{Deliveries: b.Deliveries, Summary: b.Summary}
}
