package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/prompt"
	"github.com/shinyyama/kidtokid/internal/repository"
)

const CommentPromptLabel = "Add a delivery note for the parent:"

// DeliverySummary is derived from the last loaded list and never stored.
type DeliverySummary struct {
	Active              int   `json:"active"`
	Delivered           int   `json:"delivered"`
	ValueInTransitCents int64 `json:"valueInTransitCents"`
}

type DeliveryBoard struct {
	Deliveries []model.Delivery
	Summary    DeliverySummary
}

// TransitionResult reports whether the status change reached the gateway.
// Board is the list reloaded afterwards; nil when not applied or when the
// reload failed.
type TransitionResult struct {
	Applied bool
	Board   *DeliveryBoard
}

type DeliveryService interface {
	Load(ctx context.Context) (*DeliveryBoard, error)
	Transition(ctx context.Context, deliveryID string, target model.DeliveryStatus, p prompt.Prompter) (*TransitionResult, error)
}

type deliveryService struct {
	repo   repository.DeliveryRepository
	logger *slog.Logger
}

func NewDeliveryService(repo repository.DeliveryRepository, logger *slog.Logger) DeliveryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &deliveryService{repo: repo, logger: logger}
}

// RequiresComment reports whether moving a delivery into status needs an
// operator comment.
func RequiresComment(status model.DeliveryStatus) bool {
	switch status {
	case model.DeliveryStatusDelivered, model.DeliveryStatusCanceled, model.DeliveryStatusFailed:
		return true
	}
	return false
}

func (s *deliveryService) Load(ctx context.Context) (*DeliveryBoard, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Delivery{}
	}
	return &DeliveryBoard{Deliveries: items, Summary: Summarize(items)}, nil
}

// Transition moves a delivery to target. When a comment is required and the
// prompter yields none, the transition is abandoned: no remote call, nil
// error, Applied false. After a successful change the whole list is
// reloaded; a reload failure is returned alongside Applied true.
func (s *deliveryService) Transition(ctx context.Context, deliveryID string, target model.DeliveryStatus, p prompt.Prompter) (*TransitionResult, error) {
	deliveryID = strings.TrimSpace(deliveryID)
	if deliveryID == "" {
		return nil, invalid("delivery_id", "is required")
	}
	if !target.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", target))
	}
	log := logging.FromContext(ctx, s.logger).With("delivery", deliveryID, "status", target)

	comment := ""
	if RequiresComment(target) {
		if p == nil {
			log.Info("transition abandoned: no prompter")
			return &TransitionResult{}, nil
		}
		text, ok, err := p.Prompt(ctx, CommentPromptLabel)
		if err != nil {
			return nil, fmt.Errorf("prompt comment: %w", err)
		}
		comment = strings.TrimSpace(text)
		if !ok || comment == "" {
			log.Info("transition abandoned: comment not provided")
			return &TransitionResult{}, nil
		}
	}

	if err := s.repo.SetStatus(ctx, deliveryID, target, comment); err != nil {
		log.Warn("transition rejected", "err", err)
		return nil, err
	}
	log.Info("transition applied")

	board, err := s.Load(ctx)
	if err != nil {
		return &TransitionResult{Applied: true}, fmt.Errorf("reload deliveries: %w", err)
	}
	return &TransitionResult{Applied: true, Board: board}, nil
}

// Summarize counts in-progress and delivered entries and sums every total.
func Summarize(items []model.Delivery) DeliverySummary {
	var sum DeliverySummary
	for _, d := range items {
		switch d.Status {
		case model.DeliveryStatusInProgress:
			sum.Active++
		case model.DeliveryStatusDelivered:
			sum.Delivered++
		}
		sum.ValueInTransitCents += d.TotalCents
	}
	return sum
}
