package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinyyama/kidtokid/internal/config"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/prompt"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/service"
	"github.com/shinyyama/kidtokid/internal/storage"
	"github.com/shinyyama/kidtokid/internal/transport"
)

// app holds the services a command needs. Tests build one directly.
type app struct {
	listings     service.ListingService
	publications service.PublicationService
	deliveries   service.DeliveryService
	basket       service.BasketService
	prompter     prompt.Prompter
}

func newApp(cfg *config.Config, verbose bool) (*app, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, cfg.LogFormat, os.Stderr)

	gateway := transport.New(cfg.APIBaseURL, cfg.HTTPTimeout(), logger)
	uploader, err := storage.NewUploader(cfg.BlobProvider, cfg.UploadTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("uploader: %w", err)
	}
	listingRepo := repository.NewListingRepository(gateway)
	return &app{
		listings:     service.NewListingService(listingRepo),
		publications: service.NewPublicationService(listingRepo, uploader, nil, cfg.UploadConcurrency, logger),
		deliveries:   service.NewDeliveryService(repository.NewDeliveryRepository(gateway), logger),
		basket:       service.NewBasketService(repository.NewBasketRepository(gateway)),
		prompter:     prompt.Terminal{Stdin: os.Stdin, Stdout: os.Stdout},
	}, nil
}

// newRootCommand builds the CLI. When a is nil the services are built from
// the environment on first use.
func newRootCommand(a *app) *cobra.Command {
	var (
		baseURL string
		verbose bool
	)
	resolve := func() (*app, error) {
		if a != nil {
			return a, nil
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if baseURL != "" {
			cfg.APIBaseURL = baseURL
		}
		built, err := newApp(cfg, verbose)
		if err != nil {
			return nil, err
		}
		a = built
		return a, nil
	}

	root := &cobra.Command{
		Use:           "seller",
		Short:         "KidToKid seller console",
		Long:          "Publish listings, follow deliveries and manage the basket against the marketplace gateway.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "api", "", "gateway base URL (overrides API_BASE_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newPublishCommand(resolve),
		newListingsCommand(resolve),
		newDeliveriesCommand(resolve),
		newTransitionCommand(resolve),
		newBasketCommand(resolve),
	)
	return root
}
