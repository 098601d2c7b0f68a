package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/service"
)

// FilesField is the multipart field carrying the selected images.
const FilesField = "files"

type PublicationHandler struct {
	svc service.PublicationService
}

func NewPublicationHandler(svc service.PublicationService) *PublicationHandler {
	return &PublicationHandler{svc: svc}
}

type ImageResponse struct {
	BlobName  string `json:"blobName"`
	PublicURL string `json:"publicUrl"`
	SortOrder int    `json:"sortOrder"`
}

type PublishResponse struct {
	ListingID      string          `json:"listingId"`
	ImagesUploaded bool            `json:"imagesUploaded"`
	Images         []ImageResponse `json:"images"`
}

type PublicationResponse struct {
	ID        string `json:"id"`
	ListingID string `json:"listingId"`
	Title     string `json:"title"`
	FileCount int    `json:"fileCount"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
	CreatedAt string `json:"createdAt"`
}

// Create publishes a listing from a multipart form. Text fields carry the
// listing; every part under "files" is an image, in selection order.
func (h *PublicationHandler) Create(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid multipart form"))
	}
	defer form.RemoveAll()

	in := service.ListingForm{
		Title:       formValue(form.Value, "title"),
		Category:    formValue(form.Value, "category"),
		Price:       formValue(form.Value, "price"),
		City:        formValue(form.Value, "city"),
		Description: formValue(form.Value, "description"),
		Condition:   formValue(form.Value, "condition"),
	}
	res, err := h.svc.Publish(c.Request().Context(), in, fileset.FromMultipart(form.File[FilesField]))
	if err != nil {
		return writeError(c, err)
	}
	resp := PublishResponse{
		ListingID:      res.ListingID,
		ImagesUploaded: res.ImagesUploaded(),
		Images:         make([]ImageResponse, 0, len(res.Images)),
	}
	for _, img := range res.Images {
		resp.Images = append(resp.Images, ImageResponse{BlobName: img.BlobName, PublicURL: img.PublicURL, SortOrder: img.SortOrder})
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *PublicationHandler) ListIncomplete(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.svc.IncompletePublications(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	resp := make([]PublicationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toPublicationResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"publications": resp})
}

func toPublicationResponse(p *model.Publication) PublicationResponse {
	return PublicationResponse{
		ID:        p.ID,
		ListingID: p.ListingID,
		Title:     p.Title,
		FileCount: p.FileCount,
		Stage:     string(p.Stage),
		Error:     p.Error,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
