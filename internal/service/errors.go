package service

import (
	"errors"
	"fmt"

	"github.com/shinyyama/kidtokid/internal/model"
)

var ErrNotFound = errors.New("not found")

// ValidationError is a local input failure. Nothing was sent to the gateway.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PublishOutcome names the terminal state of a failed publish.
type PublishOutcome string

const (
	// OutcomeNotCreated: no listing exists, nothing to clean up.
	OutcomeNotCreated PublishOutcome = "not_created"
	// OutcomeCreatedWithoutImages: the listing exists but upload targets
	// were never obtained.
	OutcomeCreatedWithoutImages PublishOutcome = "created_without_images"
	// OutcomeCreatedIncompleteMedia: the listing exists and uploads were
	// attempted, but the images were not all committed.
	OutcomeCreatedIncompleteMedia PublishOutcome = "created_incomplete_media"
)

// PublishError reports which stage of a publish failed and whether the
// listing already exists on the gateway. Re-running the publish creates a
// second listing.
type PublishError struct {
	Stage     model.PublicationStage
	ListingID string
	Err       error
}

func (e *PublishError) Error() string {
	if e.ListingID == "" {
		return fmt.Sprintf("publish listing: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("publish listing %s: %s: %v (listing exists without complete images)", e.ListingID, e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// ListingCreated reports whether the listing exists on the gateway.
func (e *PublishError) ListingCreated() bool {
	return e.ListingID != ""
}

func (e *PublishError) Outcome() PublishOutcome {
	switch {
	case e.ListingID == "":
		return OutcomeNotCreated
	case e.Stage == model.PublicationStageRequestTargets:
		return OutcomeCreatedWithoutImages
	default:
		return OutcomeCreatedIncompleteMedia
	}
}
