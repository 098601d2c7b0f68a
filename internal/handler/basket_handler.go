package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/service"
)

type BasketHandler struct {
	svc service.BasketService
}

func NewBasketHandler(svc service.BasketService) *BasketHandler {
	return &BasketHandler{svc: svc}
}

type BasketResponse struct {
	Lines      []model.BasketLine `json:"lines"`
	TotalCents int64              `json:"totalCents"`
}

type OrderResponse struct {
	OrderID    string          `json:"orderId"`
	TotalCents int64           `json:"totalCents"`
	Basket     *BasketResponse `json:"basket,omitempty"`
}

func (h *BasketHandler) List(c echo.Context) error {
	view, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBasketResponse(view))
}

func (h *BasketHandler) Add(c echo.Context) error {
	view, err := h.svc.Add(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBasketResponse(view))
}

func (h *BasketHandler) Remove(c echo.Context) error {
	view, err := h.svc.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBasketResponse(view))
}

func (h *BasketHandler) Confirm(c echo.Context) error {
	res, err := h.svc.Confirm(c.Request().Context())
	if err != nil && (res == nil || res.Order == nil) {
		return writeError(c, err)
	}
	resp := OrderResponse{OrderID: res.Order.OrderID, TotalCents: res.Order.TotalCents}
	if res.Basket != nil {
		b := toBasketResponse(res.Basket)
		resp.Basket = &b
	}
	return c.JSON(http.StatusCreated, resp)
}

func toBasketResponse(v *service.BasketView) BasketResponse {
	return BasketResponse{Lines: v.Lines, TotalCents: v.TotalCents}
}
