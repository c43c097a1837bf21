// Package mocks provides in-memory implementations of the repository
// interfaces for service and handler tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

// TxManager runs the function inline and counts calls. There is no rollback.
type TxManager struct {
	Calls atomic.Int64
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.Calls.Add(1)
	return fn(ctx)
}

// MedicineRepository is a mutex-guarded map keyed by id
type MedicineRepository struct {
	mu       sync.Mutex
	items    map[uuid.UUID]model.Medicine
	seq      int
	Writes   int // successful mutations, seeding excluded
	FailWith error
}

func NewMedicineRepository() *MedicineRepository {
	return &MedicineRepository{items: make(map[uuid.UUID]model.Medicine)}
}

// Seed stores m and returns it with an id assigned
func (r *MedicineRepository) Seed(m model.Medicine) model.Medicine {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(&m)
	return m
}

func (r *MedicineRepository) insert(m *model.Medicine) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		// strictly increasing so FindByName has a stable oldest entry
		r.seq++
		m.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	}
	m.UpdatedAt = m.CreatedAt
	r.items[m.ID] = *m
}

// Get returns the stored medicine without counting as a repository call
func (r *MedicineRepository) Get(id uuid.UUID) (model.Medicine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	return m, ok
}

func (r *MedicineRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *MedicineRepository) Create(_ context.Context, m *model.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.insert(m)
	r.Writes++
	return nil
}

// Update applies the column map the way the gorm repository does; unknown columns panic
func (r *MedicineRepository) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, v := range fields {
		switch col {
		case "name":
			m.Name = v.(string)
		case "brand":
			m.Brand = v.(string)
		case "category":
			m.Category = v.(string)
		case "price":
			m.Price = v.(decimal.Decimal)
		case "quantity":
			m.Quantity = v.(int)
		case "expiry_date":
			m.ExpiryDate = v.(time.Time)
		default:
			panic("mocks: unknown medicine column " + col)
		}
	}
	r.items[id] = m
	r.Writes++
	return nil
}

func (r *MedicineRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	r.Writes++
	return nil
}

func (r *MedicineRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *MedicineRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	return r.FindByID(ctx, id)
}

func (r *MedicineRepository) FindByName(_ context.Context, name string) (*model.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *model.Medicine
	for _, m := range r.items {
		if m.Name != name {
			continue
		}
		if found == nil || m.CreatedAt.Before(found.CreatedAt) {
			m := m
			found = &m
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (r *MedicineRepository) sorted() []model.Medicine {
	out := make([]model.Medicine, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *MedicineRepository) List(_ context.Context, f repository.MedicineFilter) ([]model.Medicine, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]model.Medicine, 0)
	for _, m := range r.sorted() {
		if f.Search != "" && !contains(m.Name, f.Search) && !contains(m.Brand, f.Search) {
			continue
		}
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.LowStockMax >= 0 && m.Quantity > f.LowStockMax {
			continue
		}
		matched = append(matched, m)
	}
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *MedicineRepository) ListAll(_ context.Context) ([]model.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *MedicineRepository) AdjustQuantity(_ context.Context, id uuid.UUID, delta int, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok || m.Quantity+delta < 0 {
		return 0, nil
	}
	m.Quantity += delta
	m.UpdatedAt = at
	r.items[id] = m
	r.Writes++
	return 1, nil
}

// SaleRepository keeps sales in insertion order
type SaleRepository struct {
	mu       sync.Mutex
	items    []model.Sale
	FailWith error
}

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{}
}

func (r *SaleRepository) Seed(sales ...model.Sale) {
	for i := range sales {
		_ = r.Create(context.Background(), &sales[i])
	}
}

func (r *SaleRepository) All() []model.Sale {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Sale(nil), r.items...)
}

func (r *SaleRepository) Create(_ context.Context, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	for _, existing := range r.items {
		if existing.InvoiceNumber != "" && existing.InvoiceNumber == s.InvoiceNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.items = append(r.items, *s)
	return nil
}

func (r *SaleRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *SaleRepository) match(f repository.SaleFilter) []model.Sale {
	out := make([]model.Sale, 0)
	for _, s := range r.items {
		if !inRange(s.Date, f.StartDate, f.EndDate) {
			continue
		}
		if f.Search != "" && !contains(s.Product, f.Search) && !contains(s.InvoiceNumber, f.Search) {
			continue
		}
		if f.Cashier != "" && s.Cashier != f.Cashier {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *SaleRepository) List(_ context.Context, f repository.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.match(f)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *SaleRepository) ListAll(_ context.Context, f repository.SaleFilter) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.match(f)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (r *SaleRepository) DatedTotals(_ context.Context) ([]model.DatedAmount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DatedAmount, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, model.DatedAmount{Date: s.Date, Amount: s.Total})
	}
	return out, nil
}

func (r *SaleRepository) Aggregate(_ context.Context, from, to *time.Time) (int64, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	sum := decimal.Zero
	for _, s := range r.items {
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && !s.Date.Before(*to) {
			continue
		}
		count++
		sum = sum.Add(s.Total)
	}
	return count, sum, nil
}

// PurchaseRepository keeps purchases in insertion order
type PurchaseRepository struct {
	mu    sync.Mutex
	items []model.Purchase
}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Seed(p model.Purchase) model.Purchase {
	_ = r.Create(context.Background(), &p)
	return p
}

func (r *PurchaseRepository) Create(_ context.Context, p *model.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.items = append(r.items, *p)
	return nil
}

func (r *PurchaseRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *PurchaseRepository) match(f repository.PurchaseFilter) []model.Purchase {
	out := make([]model.Purchase, 0)
	for _, p := range r.items {
		if !inRange(p.Date, f.StartDate, f.EndDate) {
			continue
		}
		if f.Search != "" && !contains(p.Medicine, f.Search) && !contains(p.OrderNumber, f.Search) {
			continue
		}
		if f.Supplier != "" && !contains(p.Supplier, f.Supplier) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PurchaseRepository) List(_ context.Context, f repository.PurchaseFilter) ([]model.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.match(f)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *PurchaseRepository) ListAll(_ context.Context, f repository.PurchaseFilter) ([]model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.match(f)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (r *PurchaseRepository) TransitionStatus(_ context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.items {
		if p.ID != id || p.Status != from {
			continue
		}
		r.items[i].Status = to
		r.items[i].UpdatedAt = at
		if to == model.PurchaseStatusReceived {
			r.items[i].ReceivedAt = &at
		}
		return true, nil
	}
	return false, nil
}

func (r *PurchaseRepository) DatedCosts(_ context.Context) ([]model.DatedAmount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DatedAmount, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, model.DatedAmount{Date: p.Date, Amount: p.TotalCost})
	}
	return out, nil
}

func (r *PurchaseRepository) TotalCost(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.items {
		sum = sum.Add(p.TotalCost)
	}
	return sum, nil
}

// UserRepository keeps users in creation order
type UserRepository struct {
	mu    sync.Mutex
	items []model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.items = append(r.items, *u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := append([]model.User(nil), r.items...)
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *UserRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.items {
		if u.ID == id {
			r.items[i].IsActive = active
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// Recorder collects published realtime events
type Recorder struct {
	mu     sync.Mutex
	Events []string
}

func (r *Recorder) Publish(event string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Events...)
}

var (
	_ repository.TransactionManager = (*TxManager)(nil)
	_ repository.MedicineRepository = (*MedicineRepository)(nil)
	_ repository.SaleRepository     = (*SaleRepository)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepository)(nil)
	_ repository.UserRepository     = (*UserRepository)(nil)
)
