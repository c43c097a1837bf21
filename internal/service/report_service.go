package service

import (
	"context"
	"fmt"
	"time"

	"pharmacy/internal/config"
	"pharmacy/internal/model"
	"pharmacy/internal/repository"
)

// ReportService serves read-only aggregations over sales and purchases.
// Every call queries the store; results are never cached.
type ReportService interface {
	MonthlySales(ctx context.Context) ([]model.PeriodTotal, error)
	YearlySales(ctx context.Context) ([]model.PeriodTotal, error)
	MonthlyPurchases(ctx context.Context) ([]model.PeriodTotal, error)
	YearlyPurchases(ctx context.Context) ([]model.PeriodTotal, error)
	TopProducts(ctx context.Context, n int) ([]model.ProductRanking, error)
	SalesByCategory(ctx context.Context) ([]model.CategoryTotal, error)
	Summary(ctx context.Context, today time.Time) (*model.Summary, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	medicineRepo repository.MedicineRepository
	loc          *time.Location
}

func NewReportService(
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	medicineRepo repository.MedicineRepository,
	policy config.InventoryConfig,
) ReportService {
	return &reportService{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		medicineRepo: medicineRepo,
		loc:          policy.Location(),
	}
}

// localize moves record dates into the reporting timezone before grouping
func (s *reportService) localize(records []model.DatedAmount) []model.DatedAmount {
	for i := range records {
		records[i].Date = records[i].Date.In(s.loc)
	}
	return records
}

func (s *reportService) MonthlySales(ctx context.Context) ([]model.PeriodTotal, error) {
	records, err := s.saleRepo.DatedTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return MonthlyTotals(s.localize(records)), nil
}

func (s *reportService) YearlySales(ctx context.Context) ([]model.PeriodTotal, error) {
	records, err := s.saleRepo.DatedTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return YearlyTotals(s.localize(records)), nil
}

func (s *reportService) MonthlyPurchases(ctx context.Context) ([]model.PeriodTotal, error) {
	records, err := s.purchaseRepo.DatedCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return MonthlyTotals(s.localize(records)), nil
}

func (s *reportService) YearlyPurchases(ctx context.Context) ([]model.PeriodTotal, error) {
	records, err := s.purchaseRepo.DatedCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return YearlyTotals(s.localize(records)), nil
}

func (s *reportService) TopProducts(ctx context.Context, n int) ([]model.ProductRanking, error) {
	sales, err := s.saleRepo.ListAll(ctx, repository.SaleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return TopProducts(sales, n), nil
}

func (s *reportService) SalesByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	sales, err := s.saleRepo.ListAll(ctx, repository.SaleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return SalesByCategory(sales, medicines), nil
}

func (s *reportService) Summary(ctx context.Context, today time.Time) (*model.Summary, error) {
	dayStart := dayOf(today, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(dayStart.Year(), dayStart.Month(), 1, 0, 0, 0, 0, s.loc)

	todayCount, todayAmount, err := s.saleRepo.Aggregate(ctx, &dayStart, &dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate today's sales: %w", err)
	}
	_, monthAmount, err := s.saleRepo.Aggregate(ctx, &monthStart, &dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	totalCount, _, err := s.saleRepo.Aggregate(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	purchaseTotal, err := s.purchaseRepo.TotalCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate purchases: %w", err)
	}

	return &model.Summary{
		TodaySalesCount:      todayCount,
		TodaySalesAmount:     todayAmount,
		MonthSalesAmount:     monthAmount,
		TotalSalesCount:      totalCount,
		TotalOrdersCount:     totalCount,
		TotalPurchasesAmount: purchaseTotal,
	}, nil
}
