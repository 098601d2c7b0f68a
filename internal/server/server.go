package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/shinyyama/kidtokid/internal/handler"
	appmw "github.com/shinyyama/kidtokid/internal/middleware"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/service"
	"github.com/shinyyama/kidtokid/internal/storage"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type Options struct {
	AllowedOriginSuffixes []string
	UploadConcurrency     int
	Logger                *slog.Logger
	SHA                   string
	BuildTime             string
}

type Server struct {
	e           *echo.Echo
	journalRepo repository.PublicationRepository
}

// New wires the seller console. db may be nil; the publication journal stays
// disabled until SetDB is called.
func New(gateway transport.Adapter, uploader storage.Uploader, db *gorm.DB, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID)
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", transport.HeaderRequestID},
		ExposeHeaders:    []string{transport.HeaderRequestID},
		AllowCredentials: true,
		AllowOriginFunc:  originAllowed(opts.AllowedOriginSuffixes),
	}))

	listingRepo := repository.NewListingRepository(gateway)
	journalRepo := repository.NewPublicationRepository(db)

	listingHandler := handler.NewListingHandler(service.NewListingService(listingRepo))
	pubHandler := handler.NewPublicationHandler(
		service.NewPublicationService(listingRepo, uploader, journalRepo, opts.UploadConcurrency, opts.Logger))
	deliveryHandler := handler.NewDeliveryHandler(
		service.NewDeliveryService(repository.NewDeliveryRepository(gateway), opts.Logger))
	basketHandler := handler.NewBasketHandler(service.NewBasketService(repository.NewBasketRepository(gateway)))
	favHandler := handler.NewFavoriteHandler(service.NewFavoriteService(repository.NewFavoriteRepository(gateway)))
	ssHandler := handler.NewSavedSearchHandler(service.NewSavedSearchService(repository.NewSavedSearchRepository(gateway)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.SHA,
			"build_time": opts.BuildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/categories", listingHandler.Categories)
	api.GET("/listings", listingHandler.List)
	api.POST("/listings", pubHandler.Create)
	api.GET("/publications/incomplete", pubHandler.ListIncomplete)
	api.GET("/deliveries", deliveryHandler.List)
	api.POST("/deliveries/:id/status", deliveryHandler.Transition)
	api.GET("/basket", basketHandler.List)
	api.POST("/basket/:id", basketHandler.Add)
	api.DELETE("/basket/:id", basketHandler.Remove)
	api.POST("/orders/confirm", basketHandler.Confirm)
	api.POST("/favorites/:id", favHandler.Add)
	api.DELETE("/favorites/:id", favHandler.Remove)
	api.POST("/saved-searches", ssHandler.Create)
	api.POST("/saved-searches/:id/run", ssHandler.Run)
	api.POST("/saved-searches/:id/toggle", ssHandler.Toggle)

	return &Server{e: e, journalRepo: journalRepo}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) SetDB(db *gorm.DB) {
	if s.journalRepo != nil {
		s.journalRepo.SetDB(db)
	}
}

func originAllowed(suffixes []string) func(origin string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		host := u.Hostname()
		for _, suffix := range suffixes {
			if suffix != "" && strings.HasSuffix(host, strings.ToLower(strings.TrimSpace(suffix))) {
				return true, nil
			}
		}
		return false, nil
	}
}
