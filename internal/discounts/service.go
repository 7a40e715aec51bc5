package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
)

var (
	ErrPermissionDenied = errors.New("discounts: permission denied")
	ErrUnavailable      = errors.New("discounts: service unavailable")
	ErrFailed           = errors.New("discounts: update failed")
)

const (
	msgPermission  = "Permission denied. Only admins can update discounts."
	msgUnavailable = "Service temporarily unavailable. Please try again later."
	msgFailed      = "Failed to update discount. Please try again."
)

type store interface {
	Upsert(ctx context.Context, itemID string, amount int64) (models.ItemDiscount, error)
	Find(ctx context.Context, itemID string) (models.ItemDiscount, bool, error)
}

// Service writes item discounts and streams them to subscribers.
type Service interface {
	// SetDiscount stores amount for itemID. Price validation is the caller's job.
	SetDiscount(ctx context.Context, itemID string, amount int64) (Update, error)
	ClearDiscount(ctx context.Context, itemID string) (Update, error)
	Get(ctx context.Context, itemID string) (Update, bool, error)
	// Subscribe streams updates for itemID ("" for all items) until ctx ends.
	Subscribe(ctx context.Context, itemID string) (<-chan Update, error)
	// Listen pumps broker deliveries into local subscriptions until ctx ends.
	Listen(ctx context.Context) error
}

type ServiceParams struct {
	Repo       store
	Broker     Broker
	Logger     *logger.Logger
	BufferSize int
}

type service struct {
	repo   store
	broker Broker
	logg   *logger.Logger
	hub    *hub
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if params.Broker == nil {
		return nil, fmt.Errorf("discounts broker required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:   params.Repo,
		broker: params.Broker,
		logg:   logg,
		hub:    newHub(params.BufferSize),
	}, nil
}

func (s *service) SetDiscount(ctx context.Context, itemID string, amount int64) (Update, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return Update{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if amount < 0 {
		return Update{}, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}

	row, err := s.repo.Upsert(ctx, itemID, amount)
	if err != nil {
		return Update{}, remoteError(err)
	}
	u := fromModel(row)

	// The write already landed; a failed broadcast only delays other sessions.
	if err := s.broker.Publish(ctx, u); err != nil {
		s.logg.Error(s.logg.WithItemID(ctx, itemID), "discount publish failed", err)
	}
	return u, nil
}

func (s *service) ClearDiscount(ctx context.Context, itemID string) (Update, error) {
	return s.SetDiscount(ctx, itemID, 0)
}

func (s *service) Get(ctx context.Context, itemID string) (Update, bool, error) {
	row, found, err := s.repo.Find(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return Update{}, false, remoteError(err)
	}
	if !found {
		return Update{ItemID: itemID}, false, nil
	}
	return fromModel(row), true, nil
}

func (s *service) Subscribe(ctx context.Context, itemID string) (<-chan Update, error) {
	if ctx == nil {
		return nil, errors.New("context required")
	}
	return s.hub.add(ctx, strings.TrimSpace(itemID)), nil
}

func (s *service) Listen(ctx context.Context) error {
	s.logg.Info(ctx, "discount listener started")
	err := s.broker.Run(ctx, s.hub.dispatch)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("discount listener: %w", err)
	}
	return nil
}

func remoteError(err error) error {
	switch db.Classify(err) {
	case db.FaultPermission:
		return pkgerrors.Wrap(pkgerrors.CodePermission, fmt.Errorf("%w: %w", ErrPermissionDenied, err), msgPermission)
	case db.FaultUnavailable:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%w: %w", ErrUnavailable, err), msgUnavailable)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("%w: %w", ErrFailed, err), msgFailed).Expose()
	}
}
