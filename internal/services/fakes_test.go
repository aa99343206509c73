package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

var errStoreDown = errors.New("store down")

type fakeProducts struct {
	mu    sync.Mutex
	items map[string]models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[string]models.Product)}
	for _, p := range products {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) setPrice(id string, price money.Money) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.items[id]
	p.PriceCents = price
	f.items[id] = p
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) GetMany(_ context.Context, ids []string) (map[string]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Product)
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) sorted(keep func(models.Product) bool) []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProducts) List(_ context.Context, limit, offset int) ([]models.Product, int64, error) {
	all := f.sorted(func(models.Product) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeProducts) Search(_ context.Context, keyword string) ([]models.Product, error) {
	q := strings.ToLower(keyword)
	return f.sorted(func(p models.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return true
		}
		for _, k := range p.Keywords {
			if strings.Contains(strings.ToLower(k), q) {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeProducts) ByType(_ context.Context, productType string) ([]models.Product, error) {
	return f.sorted(func(p models.Product) bool { return p.Type != nil && *p.Type == productType }), nil
}

func (f *fakeProducts) ByMinRating(_ context.Context, minStars float64) ([]models.Product, error) {
	return f.sorted(func(p models.Product) bool { return p.Rating.Stars >= minStars }), nil
}

func (f *fakeProducts) ByPriceRange(_ context.Context, low, high money.Money) ([]models.Product, error) {
	return f.sorted(func(p models.Product) bool {
		return p.PriceCents.Cmp(low) >= 0 && p.PriceCents.Cmp(high) <= 0
	}), nil
}

func (f *fakeProducts) Create(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[product.ID]; ok {
		return apperr.InvalidState("products: duplicate key")
	}
	f.items[product.ID] = *product
	return nil
}

func (f *fakeProducts) Save(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[product.ID] = *product
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{items: make(map[uuid.UUID]models.User)}
}

func (f *fakeUsers) add(email string) models.User {
	u := models.User{Name: "Test", Email: email}
	u.ID = uuid.New()
	f.mu.Lock()
	f.items[u.ID] = u
	f.mu.Unlock()
	return u
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == user.Email {
			return apperr.InvalidState("users: duplicate key")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.items[user.ID] = *user
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

type fakeCarts struct {
	mu       sync.Mutex
	items    []models.CartItem
	clearErr error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{}
}

func (f *fakeCarts) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCarts) Get(_ context.Context, id uuid.UUID) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeCarts) Upsert(_ context.Context, userID uuid.UUID, productID string, quantity int, deliveryOption *string) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].UserID == userID && f.items[i].ProductID == productID {
			f.items[i].Quantity += quantity
			if deliveryOption != nil {
				f.items[i].DeliveryOption = *deliveryOption
			}
			item := f.items[i]
			return &item, nil
		}
	}
	item := models.CartItem{
		UserID:         userID,
		ProductID:      productID,
		Quantity:       quantity,
		DeliveryOption: models.DefaultDeliveryOption,
	}
	item.ID = uuid.New()
	if deliveryOption != nil {
		item.DeliveryOption = *deliveryOption
	}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeCarts) Update(_ context.Context, id uuid.UUID, quantity *int, deliveryOption *string) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if quantity != nil {
			f.items[i].Quantity = *quantity
		}
		if deliveryOption != nil {
			f.items[i].DeliveryOption = *deliveryOption
		}
		item := f.items[i]
		return &item, nil
	}
	return nil, nil
}

func (f *fakeCarts) Delete(_ context.Context, userID uuid.UUID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCarts) ClearUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeCarts) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := f.ListByUser(ctx, userID)
	return len(items), err
}

type fakeOrders struct {
	mu        sync.Mutex
	items     map[uuid.UUID]models.Order
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{items: make(map[uuid.UUID]models.Order)}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.items[order.ID] = stored
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOrders) filter(keep func(models.Order) bool) []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.items {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	return f.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (f *fakeOrders) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	return f.filter(func(o models.Order) bool { return o.Status == status }), nil
}

func (f *fakeOrders) ListByUserAndStatus(_ context.Context, userID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	return f.filter(func(o models.Order) bool { return o.UserID == userID && o.Status == status }), nil
}

func (f *fakeOrders) SetStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok || o.Status == models.OrderStatusCancelled {
		return false, nil
	}
	o.Status = status
	f.items[id] = o
	return true, nil
}

func (f *fakeOrders) CompareAndSetStatus(_ context.Context, id uuid.UUID, expected, status models.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = status
	f.items[id] = o
	return true, nil
}

func (f *fakeOrders) SetDeliveryDate(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return false, nil
	}
	o.DeliveryDate = &at
	f.items[id] = o
	return true, nil
}

func (f *fakeOrders) Stats(_ context.Context) (*OrderStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &OrderStats{OrdersByStatus: make(map[models.OrderStatus]int64)}
	for _, o := range f.items {
		stats.TotalOrders++
		stats.OrdersByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		}
	}
	return stats, nil
}

type fakeOTPs struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.OTP
}

func newFakeOTPs() *fakeOTPs {
	return &fakeOTPs{items: make(map[uuid.UUID]models.OTP)}
}

func (f *fakeOTPs) Create(_ context.Context, otp *models.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp.ID = uuid.New()
	f.items[otp.ID] = *otp
	return nil
}

func (f *fakeOTPs) Get(_ context.Context, id uuid.UUID) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOTPs) Claim(_ context.Context, id uuid.UUID, code string, now time.Time) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok || o.Code != code || !o.Usable(now) {
		return "", false, nil
	}
	o.Used = true
	o.UsedAt = &now
	f.items[id] = o
	return o.Email, true, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, email, code string, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email+":"+code)
	return nil
}

func product(id string, cents int64) models.Product {
	return models.Product{
		ID:         id,
		Name:       "Product " + id,
		PriceCents: money.Cents(cents),
		Rating:     models.Rating{Stars: 4, Count: 3},
	}
}

func ptr[T any](v T) *T {
	return &v
}
