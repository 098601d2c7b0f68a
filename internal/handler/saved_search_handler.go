package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/service"
)

type SavedSearchHandler struct {
	svc service.SavedSearchService
}

func NewSavedSearchHandler(svc service.SavedSearchService) *SavedSearchHandler {
	return &SavedSearchHandler{svc: svc}
}

type CreateSavedSearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	MaxPrice string `json:"maxPrice"`
}

type ToggleSavedSearchRequest struct {
	Active bool `json:"active"`
}

func (h *SavedSearchHandler) Create(c echo.Context) error {
	var req CreateSavedSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	id, err := h.svc.Create(c.Request().Context(), service.SavedSearchInput{
		Query:    req.Query,
		Category: req.Category,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"savedSearchId": id})
}

func (h *SavedSearchHandler) Run(c echo.Context) error {
	items, err := h.svc.Run(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ListingListResponse{Items: items})
}

func (h *SavedSearchHandler) Toggle(c echo.Context) error {
	var req ToggleSavedSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.Toggle(c.Request().Context(), c.Param("id"), req.Active); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
