package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pharmacy/internal/config"
	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DTOs
type MedicineRequest struct {
	Name       string          `json:"name" binding:"required"`
	Brand      string          `json:"brand"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ExpiryDate string          `json:"expiryDate" binding:"required"`
}

// StockUpdateRequest is the pharmacist's restricted edit: only the fields
// that are supplied are changed.
type StockUpdateRequest struct {
	Quantity   *int             `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
	ExpiryDate *string          `json:"expiryDate"`
}

type MedicineListQuery struct {
	Search   string
	Category string
	LowStock bool
	Page     int
	Limit    int
}

type MedicineService interface {
	CreateMedicine(ctx context.Context, req MedicineRequest) (*model.Medicine, error)
	UpdateMedicine(ctx context.Context, id string, req MedicineRequest) (*model.Medicine, error)
	UpdateStock(ctx context.Context, id string, req StockUpdateRequest) (*model.Medicine, error)
	DeleteMedicine(ctx context.Context, id string) error
	GetMedicine(ctx context.Context, id string) (*model.Medicine, error)
	ListMedicines(ctx context.Context, q MedicineListQuery) ([]model.Medicine, int64, error)
}

type medicineService struct {
	medicineRepo repository.MedicineRepository
	txManager    repository.TransactionManager
	policy       config.InventoryConfig
	events       EventPublisher
	log          *zap.Logger
}

func NewMedicineService(medicineRepo repository.MedicineRepository, txManager repository.TransactionManager, policy config.InventoryConfig, events EventPublisher, log *zap.Logger) MedicineService {
	return &medicineService{
		medicineRepo: medicineRepo,
		txManager:    txManager,
		policy:       policy,
		events:       publisherOrNoop(events),
		log:          log,
	}
}

func parseExpiry(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, validationError("expiryDate must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

func (s *medicineService) validate(req MedicineRequest) (time.Time, error) {
	if strings.TrimSpace(req.Name) == "" {
		return time.Time{}, validationError("name is required")
	}
	if req.Price.IsNegative() {
		return time.Time{}, validationError("price must not be negative")
	}
	if req.Quantity < 0 {
		return time.Time{}, validationError("quantity must not be negative")
	}
	return parseExpiry(req.ExpiryDate)
}

func (s *medicineService) CreateMedicine(ctx context.Context, req MedicineRequest) (*model.Medicine, error) {
	expiry, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = s.policy.DefaultCategory
	}

	medicine := &model.Medicine{
		Name:       strings.TrimSpace(req.Name),
		Brand:      strings.TrimSpace(req.Brand),
		Category:   category,
		Price:      req.Price,
		Quantity:   req.Quantity,
		ExpiryDate: expiry,
	}
	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	s.log.Info("medicine created", zap.String("medicine_id", medicine.ID.String()), zap.String("name", medicine.Name))
	return medicine, nil
}

func parseMedicineID(id string) (uuid.UUID, error) {
	medicineID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("medicine %w", ErrNotFound)
	}
	return medicineID, nil
}

func (s *medicineService) load(ctx context.Context, id string) (*model.Medicine, error) {
	medicineID, err := parseMedicineID(id)
	if err != nil {
		return nil, err
	}
	medicine, err := s.medicineRepo.FindByID(ctx, medicineID)
	if err != nil {
		return nil, notFound(err, "medicine")
	}
	return medicine, nil
}

// write applies fields to one medicine. A quantity change replaces the stock level
// outright, so it runs under a row lock; other columns are written on their own
// and leave concurrent stock adjustments intact.
func (s *medicineService) write(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Medicine, error) {
	var err error
	if _, setsQuantity := fields["quantity"]; setsQuantity {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if _, err := s.medicineRepo.FindByIDForUpdate(txCtx, id); err != nil {
				return err
			}
			return s.medicineRepo.Update(txCtx, id, fields)
		})
	} else {
		err = s.medicineRepo.Update(ctx, id, fields)
	}
	if err != nil {
		return nil, notFound(err, "medicine")
	}

	medicine, err := s.medicineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "medicine")
	}
	return medicine, nil
}

func (s *medicineService) UpdateMedicine(ctx context.Context, id string, req MedicineRequest) (*model.Medicine, error) {
	expiry, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	medicineID, err := parseMedicineID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"brand":       strings.TrimSpace(req.Brand),
		"price":       req.Price,
		"quantity":    req.Quantity,
		"expiry_date": expiry,
	}
	if c := strings.TrimSpace(req.Category); c != "" {
		fields["category"] = c
	}

	medicine, err := s.write(ctx, medicineID, fields)
	if err != nil {
		return nil, err
	}
	s.events.Publish(EventStockChanged, medicine)
	return medicine, nil
}

func (s *medicineService) UpdateStock(ctx context.Context, id string, req StockUpdateRequest) (*model.Medicine, error) {
	medicineID, err := parseMedicineID(id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, validationError("quantity must not be negative")
		}
		fields["quantity"] = *req.Quantity
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, validationError("price must not be negative")
		}
		fields["price"] = *req.Price
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiry(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		fields["expiry_date"] = expiry
	}
	if len(fields) == 0 {
		return s.load(ctx, id)
	}

	medicine, err := s.write(ctx, medicineID, fields)
	if err != nil {
		return nil, err
	}

	s.log.Info("stock updated",
		zap.String("medicine_id", medicine.ID.String()),
		zap.Int("quantity", medicine.Quantity))
	s.events.Publish(EventStockChanged, medicine)
	return medicine, nil
}

func (s *medicineService) DeleteMedicine(ctx context.Context, id string) error {
	medicineID, err := parseMedicineID(id)
	if err != nil {
		return err
	}
	if err := s.medicineRepo.Delete(ctx, medicineID); err != nil {
		return notFound(err, "medicine")
	}
	s.log.Info("medicine deleted", zap.String("medicine_id", id))
	return nil
}

func (s *medicineService) GetMedicine(ctx context.Context, id string) (*model.Medicine, error) {
	return s.load(ctx, id)
}

func (s *medicineService) ListMedicines(ctx context.Context, q MedicineListQuery) ([]model.Medicine, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	filter := repository.MedicineFilter{
		Search:      strings.TrimSpace(q.Search),
		Category:    strings.TrimSpace(q.Category),
		LowStockMax: -1,
		Page:        q.Page,
		Limit:       q.Limit,
	}
	if q.LowStock {
		filter.LowStockMax = s.policy.LowStockThreshold
	}
	return s.medicineRepo.List(ctx, filter)
}
