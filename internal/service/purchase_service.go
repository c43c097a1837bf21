package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type CreatePurchaseRequest struct {
	Supplier  string          `json:"supplier"`
	Medicine  string          `json:"medicine" binding:"required"`
	Quantity  int             `json:"quantity"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Status    string          `json:"status"`
}

type PurchaseListQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Supplier  string
	Status    string
	Page      int
	Limit     int
}

type PurchaseService interface {
	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*model.Purchase, error)
	// ReceivePurchase is idempotent: receiving an already received order changes nothing.
	ReceivePurchase(ctx context.Context, id string) (*model.Purchase, error)
	CancelPurchase(ctx context.Context, id string) (*model.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*model.Purchase, error)
	ListPurchases(ctx context.Context, q PurchaseListQuery) ([]model.Purchase, int64, error)
	ExportPurchases(ctx context.Context, q PurchaseListQuery) ([]model.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	adjuster     StockAdjuster
	txManager    repository.TransactionManager
	events       EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	adjuster StockAdjuster,
	txManager repository.TransactionManager,
	events EventPublisher,
	log *zap.Logger,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		adjuster:     adjuster,
		txManager:    txManager,
		events:       publisherOrNoop(events),
		log:          log,
		now:          time.Now,
	}
}

func (s *purchaseService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*model.Purchase, error) {
	name := strings.TrimSpace(req.Medicine)
	if name == "" {
		return nil, validationError("medicine is required")
	}
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be greater than zero")
	}
	if req.TotalCost.IsNegative() {
		return nil, validationError("totalCost must not be negative")
	}
	status := req.Status
	if status == "" {
		status = model.PurchaseStatusPending
	}
	if !model.IsValidPurchaseStatus(status) {
		return nil, validationError("status must be one of Pending, Received, Cancelled")
	}

	now := s.now()
	purchase := &model.Purchase{
		OrderNumber: documentNumber(orderPrefix, now),
		Date:        now,
		Supplier:    strings.TrimSpace(req.Supplier),
		Medicine:    name,
		Quantity:    req.Quantity,
		TotalCost:   req.TotalCost,
		Status:      status,
	}
	if status == model.PurchaseStatusReceived {
		purchase.ReceivedAt = &now
	}

	var stock *model.Medicine
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.Create(txCtx, purchase); err != nil {
			return fmt.Errorf("failed to save purchase: %w", err)
		}
		if status != model.PurchaseStatusReceived {
			return nil
		}
		var err error
		stock, err = s.adjuster.AdjustByName(txCtx, purchase.Medicine, purchase.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase created",
		zap.String("order_number", purchase.OrderNumber),
		zap.String("medicine", purchase.Medicine),
		zap.String("status", purchase.Status))

	if stock != nil {
		s.events.Publish(EventPurchaseReceived, purchase)
		s.events.Publish(EventStockChanged, stock)
	}
	return purchase, nil
}

func (s *purchaseService) ReceivePurchase(ctx context.Context, id string) (*model.Purchase, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("purchase %w", ErrNotFound)
	}

	var purchase *model.Purchase
	var stock *model.Medicine
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.purchaseRepo.FindByID(txCtx, purchaseID)
		if err != nil {
			return notFound(err, "purchase")
		}
		purchase = current

		switch current.Status {
		case model.PurchaseStatusReceived:
			return nil
		case model.PurchaseStatusCancelled:
			return fmt.Errorf("cannot receive a cancelled purchase: %w", ErrInvalidTransition)
		}

		now := s.now()
		// Only the caller that flips Pending to Received applies the stock increment.
		changed, err := s.purchaseRepo.TransitionStatus(txCtx, purchaseID, model.PurchaseStatusPending, model.PurchaseStatusReceived, now)
		if err != nil {
			return fmt.Errorf("failed to update purchase: %w", err)
		}
		if !changed {
			latest, err := s.purchaseRepo.FindByID(txCtx, purchaseID)
			if err != nil {
				return notFound(err, "purchase")
			}
			purchase = latest
			if latest.Status == model.PurchaseStatusReceived {
				return nil
			}
			return fmt.Errorf("purchase is %s: %w", latest.Status, ErrInvalidTransition)
		}

		purchase.Status = model.PurchaseStatusReceived
		purchase.ReceivedAt = &now
		purchase.UpdatedAt = now

		stock, err = s.adjuster.AdjustByName(txCtx, purchase.Medicine, purchase.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	if stock != nil {
		s.log.Info("purchase received",
			zap.String("order_number", purchase.OrderNumber),
			zap.String("medicine", purchase.Medicine),
			zap.Int("quantity", purchase.Quantity),
			zap.Int("stock", stock.Quantity))
		s.events.Publish(EventPurchaseReceived, purchase)
		s.events.Publish(EventStockChanged, stock)
	}
	return purchase, nil
}

func (s *purchaseService) CancelPurchase(ctx context.Context, id string) (*model.Purchase, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("purchase %w", ErrNotFound)
	}

	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, notFound(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusPending {
		return nil, fmt.Errorf("cannot cancel a %s purchase: %w", strings.ToLower(purchase.Status), ErrInvalidTransition)
	}

	now := s.now()
	changed, err := s.purchaseRepo.TransitionStatus(ctx, purchaseID, model.PurchaseStatusPending, model.PurchaseStatusCancelled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("purchase changed concurrently: %w", ErrInvalidTransition)
	}

	purchase.Status = model.PurchaseStatusCancelled
	purchase.UpdatedAt = now
	s.log.Info("purchase cancelled", zap.String("order_number", purchase.OrderNumber))
	return purchase, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id string) (*model.Purchase, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid purchase id")
	}
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, notFound(err, "purchase")
	}
	return purchase, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, q PurchaseListQuery) ([]model.Purchase, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Status != "" && !model.IsValidPurchaseStatus(q.Status) {
		return nil, 0, validationError("unknown status %q", q.Status)
	}
	return s.purchaseRepo.List(ctx, purchaseFilter(q))
}

func (s *purchaseService) ExportPurchases(ctx context.Context, q PurchaseListQuery) ([]model.Purchase, error) {
	return s.purchaseRepo.ListAll(ctx, purchaseFilter(q))
}

func purchaseFilter(q PurchaseListQuery) repository.PurchaseFilter {
	return repository.PurchaseFilter{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Search:    strings.TrimSpace(q.Search),
		Supplier:  strings.TrimSpace(q.Supplier),
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}
