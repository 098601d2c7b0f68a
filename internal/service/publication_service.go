package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/reqctx"
	"github.com/shinyyama/kidtokid/internal/storage"
)

// ListingForm is the raw seller input. Price is free text such as "24,50".
type ListingForm struct {
	Title       string
	Category    string
	Price       string
	City        string
	Description string
	Condition   string
}

type PublishResult struct {
	ListingID string
	// Images is the committed image set in display order; empty when no
	// files were selected.
	Images []model.ImageCommit
}

// ImagesUploaded reports whether the listing was published with images.
func (r *PublishResult) ImagesUploaded() bool {
	return len(r.Images) > 0
}

type PublicationService interface {
	Publish(ctx context.Context, form ListingForm, files []fileset.File) (*PublishResult, error)
	IncompletePublications(ctx context.Context, limit int) ([]model.Publication, error)
}

type publicationService struct {
	listings    repository.ListingRepository
	uploader    storage.Uploader
	journal     repository.PublicationRepository
	concurrency int
	logger      *slog.Logger
}

// NewPublicationService wires the pipeline. journal may be nil. concurrency
// bounds parallel uploads; 0 means one goroutine per file.
func NewPublicationService(listings repository.ListingRepository, uploader storage.Uploader, journal repository.PublicationRepository, concurrency int, logger *slog.Logger) PublicationService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &publicationService{
		listings:    listings,
		uploader:    uploader,
		journal:     journal,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Publish creates the listing, uploads files straight to object storage and
// commits them in their original order. The commit is only sent when every
// upload succeeded. Nothing is retried and a created listing is never rolled
// back; see PublishError.
func (s *publicationService) Publish(ctx context.Context, form ListingForm, files []fileset.File) (*PublishResult, error) {
	payload, err := BuildListingPayload(form)
	if err != nil {
		return nil, err
	}
	ctx, _ = reqctx.EnsureRID(ctx)
	pub := &model.Publication{
		ID:        uuid.NewString(),
		Title:     journalTitle(payload.Title),
		FileCount: len(files),
		Stage:     model.PublicationStageCreate,
	}

	listingID, err := s.listings.Create(ctx, payload)
	if err != nil {
		return nil, s.fail(ctx, pub, model.PublicationStageCreate, err)
	}
	pub.ListingID = listingID
	ctx = reqctx.WithListingID(ctx, listingID)
	log := logging.FromContext(ctx, s.logger)
	log.Info("listing created", "stage", model.PublicationStageCreate, "files", len(files))

	if len(files) == 0 {
		s.finish(ctx, pub)
		return &PublishResult{ListingID: listingID}, nil
	}

	exts := make([]string, len(files))
	for i, f := range files {
		exts[i] = fileset.Ext(f.Name())
	}
	targets, err := s.listings.RequestUploadTargets(ctx, listingID, exts)
	if err != nil {
		return nil, s.fail(ctx, pub, model.PublicationStageRequestTargets, err)
	}
	if len(targets) != len(files) {
		err := fmt.Errorf("gateway returned %d upload targets for %d files", len(targets), len(files))
		return nil, s.fail(ctx, pub, model.PublicationStageRequestTargets, err)
	}

	if err := s.uploadAll(ctx, targets, files); err != nil {
		return nil, s.fail(ctx, pub, model.PublicationStageUpload, err)
	}
	log.Info("uploads done", "stage", model.PublicationStageUpload, "files", len(files))

	images := make([]model.ImageCommit, len(targets))
	for i, t := range targets {
		images[i] = model.ImageCommit{UploadTarget: t, SortOrder: i}
	}
	if err := s.listings.CommitImages(ctx, listingID, images); err != nil {
		return nil, s.fail(ctx, pub, model.PublicationStageCommit, err)
	}

	if err := fileset.ReleaseAll(files); err != nil {
		log.Warn("release files", "err", err)
	}
	s.finish(ctx, pub)
	return &PublishResult{ListingID: listingID, Images: images}, nil
}

// uploadAll runs one upload per target and waits for all of them. targets[i]
// always receives files[i].
func (s *publicationService) uploadAll(ctx context.Context, targets []model.UploadTarget, files []fileset.File) error {
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	errs := make([]error, len(targets))
	for i := range targets {
		g.Go(func() error {
			if err := s.uploader.Put(ctx, targets[i], files[i]); err != nil {
				errs[i] = fmt.Errorf("file %d (%s): %w", i, files[i].Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *publicationService) fail(ctx context.Context, pub *model.Publication, stage model.PublicationStage, err error) error {
	pub.Stage = stage
	pub.Failed = true
	pub.Error = err.Error()
	logging.FromContext(ctx, s.logger).Error("publish failed", "stage", stage, "listing_created", pub.ListingID != "", "err", err)
	s.record(ctx, pub)
	return &PublishError{Stage: stage, ListingID: pub.ListingID, Err: err}
}

func (s *publicationService) finish(ctx context.Context, pub *model.Publication) {
	pub.Stage = model.PublicationStageDone
	logging.FromContext(ctx, s.logger).Info("listing published", "images", pub.FileCount)
	s.record(ctx, pub)
}

func (s *publicationService) record(ctx context.Context, pub *model.Publication) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Save(ctx, pub); err != nil && !errors.Is(err, repository.ErrDBNotReady) {
		logging.FromContext(ctx, s.logger).Warn("journal publication", "id", pub.ID, "err", err)
	}
}

// journalTitle cuts title to the journal column width, counted in runes.
func journalTitle(title string) string {
	r := []rune(title)
	if len(r) <= model.PublicationTitleMax {
		return title
	}
	return string(r[:model.PublicationTitleMax])
}

func (s *publicationService) IncompletePublications(ctx context.Context, limit int) ([]model.Publication, error) {
	if s.journal == nil {
		return []model.Publication{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.journal.ListIncomplete(ctx, limit)
}

// BuildListingPayload validates form and normalizes it for the gateway.
func BuildListingPayload(form ListingForm) (model.ListingPayload, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return model.ListingPayload{}, invalid("title", "is required")
	}

	category := model.Category(strings.TrimSpace(form.Category))
	if category == "" {
		category = model.CategoryClothing
	}
	if !category.Valid() {
		return model.ListingPayload{}, invalid("category", fmt.Sprintf("unknown category %q", category))
	}

	condition := model.Condition(strings.TrimSpace(form.Condition))
	if condition == "" {
		condition = model.ConditionLikeNew
	}
	if !condition.Valid() {
		return model.ListingPayload{}, invalid("condition", fmt.Sprintf("unknown condition %q", condition))
	}

	return model.ListingPayload{
		Title:       title,
		Category:    category,
		City:        strings.TrimSpace(form.City),
		Description: strings.TrimSpace(form.Description),
		PriceCents:  ParsePriceCents(form.Price),
		Condition:   condition,
	}, nil
}

var leadingDecimal = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// ParsePriceCents converts a price in major units to minor units. It is
// lenient: a comma is read as the decimal point, trailing text after the
// number is ignored, and anything unparseable, non-finite or negative is
// reported as no price (nil) instead of an error.
func ParsePriceCents(text string) *int64 {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	clean = strings.Replace(clean, ",", ".", 1)
	num := leadingDecimal.FindString(clean)
	if num == "" {
		return nil
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return nil
	}
	cents := math.Round(v * 100)
	if cents > math.MaxInt64 {
		return nil
	}
	out := int64(cents)
	return &out
}
