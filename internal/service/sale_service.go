package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DTOs
type RecordSaleRequest struct {
	ProductID   string          `json:"productId" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	PaymentType string          `json:"paymentType"`
	Customer    string          `json:"customer"`
}

type SaleListQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Cashier   string
	Page      int
	Limit     int
}

type SaleService interface {
	RecordSale(ctx context.Context, cashier string, req RecordSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, q SaleListQuery) ([]model.Sale, int64, error)
	ExportSales(ctx context.Context, q SaleListQuery) ([]model.Sale, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	medicineRepo repository.MedicineRepository
	adjuster     StockAdjuster
	txManager    repository.TransactionManager
	events       EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	medicineRepo repository.MedicineRepository,
	adjuster StockAdjuster,
	txManager repository.TransactionManager,
	events EventPublisher,
	log *zap.Logger,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		medicineRepo: medicineRepo,
		adjuster:     adjuster,
		txManager:    txManager,
		events:       publisherOrNoop(events),
		log:          log,
		now:          time.Now,
	}
}

func (s *saleService) RecordSale(ctx context.Context, cashier string, req RecordSaleRequest) (*model.Sale, error) {
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be greater than zero")
	}
	if req.Price.IsNegative() {
		return nil, validationError("price must not be negative")
	}
	if req.Discount.IsNegative() {
		return nil, validationError("discount must not be negative")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var sale *model.Sale
	var stock *model.Medicine
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		medicine, err := s.medicineRepo.FindByID(txCtx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load medicine: %w", err)
		}
		if medicine.Quantity < req.Quantity {
			return ErrInsufficientStock
		}

		now := s.now()
		sale = &model.Sale{
			InvoiceNumber: documentNumber(invoicePrefix, now),
			Date:          now,
			Customer:      strings.TrimSpace(req.Customer),
			MedicineID:    medicine.ID,
			Product:       medicine.Name,
			Quantity:      req.Quantity,
			Price:         req.Price,
			Discount:      req.Discount,
			Total:         req.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Sub(req.Discount),
			PaymentType:   req.PaymentType,
			Cashier:       cashier,
		}
		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}

		// A concurrent sale may have drained the stock since the check above.
		stock, err = s.adjuster.AdjustByID(txCtx, medicine.ID, -req.Quantity)
		if errors.Is(err, ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale recorded",
		zap.String("invoice_number", sale.InvoiceNumber),
		zap.String("product", sale.Product),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("cashier", cashier))

	s.events.Publish(EventSaleRecorded, sale)
	s.events.Publish(EventStockChanged, stock)
	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid sale id")
	}
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, notFound(err, "sale")
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, q SaleListQuery) ([]model.Sale, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	return s.saleRepo.List(ctx, saleFilter(q))
}

func (s *saleService) ExportSales(ctx context.Context, q SaleListQuery) ([]model.Sale, error) {
	return s.saleRepo.ListAll(ctx, saleFilter(q))
}

func saleFilter(q SaleListQuery) repository.SaleFilter {
	return repository.SaleFilter{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Search:    strings.TrimSpace(q.Search),
		Cashier:   q.Cashier,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}
