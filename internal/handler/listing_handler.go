package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingListResponse struct {
	Items []model.ListingSummary `json:"items"`
}

type CategoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.svc.List(c.Request().Context(), limit, c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ListingListResponse{Items: items})
}

// Categories lists the category catalogue with display labels.
func (h *ListingHandler) Categories(c echo.Context) error {
	out := make([]CategoryResponse, 0, len(model.Categories))
	for _, cat := range model.Categories {
		out = append(out, CategoryResponse{Key: string(cat), Label: cat.Label()})
	}
	return c.JSON(http.StatusOK, out)
}
