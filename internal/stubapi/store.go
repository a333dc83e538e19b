package stubapi

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-backoffice/internal/domain"
)

// Store is the in-memory state behind the stub backend. It exists so the
// client can be developed and integration-tested without a real backend;
// nothing survives a restart on purpose.
type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	variants map[string][]domain.Variant
	orders   map[string]domain.Order
	details  map[string][]domain.LineItem
	posts    []domain.Post
}

func NewStore() *Store {
	return &Store{
		variants: make(map[string][]domain.Variant),
		orders:   make(map[string]domain.Order),
		details:  make(map[string][]domain.LineItem),
	}
}

// AddProduct registers a product and its variants.
func (s *Store) AddProduct(p domain.Product, variants []domain.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.NewString()
		}
		variants[i].ProductID = p.ID
	}
	s.products = append(s.products, p)
	s.variants[p.ID] = variants
}

// ListProducts filters, sorts and paginates the catalog.
func (s *Store) ListProducts(page, pageSize int, sortKey, category, search string) domain.Page[domain.Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []domain.Product
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch sortKey {
	case "name":
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	case "price":
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].UnitPrice.LessThan(filtered[j].UnitPrice) })
	default:
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return domain.Page[domain.Product]{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) Variants(productID string) ([]domain.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variants[productID]
	if !ok {
		return nil, false
	}
	out := make([]domain.Variant, len(v))
	copy(out, v)
	return out, true
}

func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	return o, ok
}

func (s *Store) CreateOrder(o domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.NewString()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	s.orders[o.ID] = o
	return o
}

func (s *Store) UpdateOrder(id string, update domain.Order) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	existing.Customer = update.Customer
	existing.ProductCost = update.ProductCost
	existing.ShippingCost = update.ShippingCost
	existing.Total = update.Total
	existing.UpdatedAt = time.Now().UTC()
	s.orders[id] = existing
	return existing, true
}

func (s *Store) OrderDetails(orderID string) ([]domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orders[orderID]; !ok {
		return nil, false
	}
	out := make([]domain.LineItem, len(s.details[orderID]))
	copy(out, s.details[orderID])
	// The stored ceiling reflects availability at write time; refresh it so
	// reloaded drafts see current stock plus their own reservation.
	for i, li := range out {
		if v, _, err := s.findVariantLocked(li.ItemID); err == nil {
			out[i].LimitedQuantity = v.AvailableQuantity + li.Quantity
		}
	}
	return out, true
}

// CreateDetail stores one order line and reserves its quantity from the
// variant's available stock.
func (s *Store) CreateDetail(orderID, variantID string, quantity int, unitPrice decimal.Decimal) (domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return domain.LineItem{}, fmt.Errorf("order %s not found", orderID)
	}
	variant, product, err := s.findVariantLocked(variantID)
	if err != nil {
		return domain.LineItem{}, err
	}
	if quantity < 1 || quantity > variant.AvailableQuantity {
		return domain.LineItem{}, fmt.Errorf("quantity %d unavailable for variant %s", quantity, variantID)
	}
	s.adjustStockLocked(variantID, -quantity)

	li := domain.LineItem{
		ItemID:          variantID,
		DetailID:        uuid.NewString(),
		OrderID:         orderID,
		Product:         product.Snapshot(),
		Color:           variant.Color,
		Size:            variant.Size,
		Quantity:        quantity,
		LimitedQuantity: variant.AvailableQuantity,
		LineTotal:       unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
	s.details[orderID] = append(s.details[orderID], li)
	return li, nil
}

// UpdateDetail changes a line's quantity, adjusting reserved stock by the
// delta.
func (s *Store) UpdateDetail(detailID string, quantity int) (domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for orderID, lines := range s.details {
		for i, li := range lines {
			if li.DetailID != detailID {
				continue
			}
			if quantity < 1 {
				return domain.LineItem{}, fmt.Errorf("quantity must be positive")
			}
			delta := quantity - li.Quantity
			variant, _, err := s.findVariantLocked(li.ItemID)
			if err == nil && delta > variant.AvailableQuantity {
				return domain.LineItem{}, fmt.Errorf("quantity %d unavailable for detail %s", quantity, detailID)
			}
			s.adjustStockLocked(li.ItemID, -delta)
			li.Quantity = quantity
			li.LineTotal = li.Product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			if err == nil {
				li.LimitedQuantity = variant.AvailableQuantity - delta + quantity
			}
			s.details[orderID][i] = li
			return li, nil
		}
	}
	return domain.LineItem{}, fmt.Errorf("detail %s not found", detailID)
}

func (s *Store) findVariantLocked(variantID string) (domain.Variant, domain.Product, error) {
	for productID, variants := range s.variants {
		for _, v := range variants {
			if v.ID == variantID {
				for _, p := range s.products {
					if p.ID == productID {
						return v, p, nil
					}
				}
			}
		}
	}
	return domain.Variant{}, domain.Product{}, fmt.Errorf("variant %s not found", variantID)
}

func (s *Store) adjustStockLocked(variantID string, delta int) {
	for productID, variants := range s.variants {
		for i, v := range variants {
			if v.ID == variantID {
				v.AvailableQuantity += delta
				if v.AvailableQuantity < 0 {
					v.AvailableQuantity = 0
				}
				s.variants[productID][i] = v
				return
			}
		}
	}
}

func (s *Store) ListPosts(page, pageSize int) domain.Page[domain.Post] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	total := len(s.posts)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]domain.Post, end-start)
	copy(items, s.posts[start:end])
	return domain.Page[domain.Post]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

func (s *Store) CreatePost(p domain.Post) domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts = append(s.posts, p)
	return p
}

func (s *Store) UpdatePost(id string, update domain.Post) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			update.ID = p.ID
			update.CreatedAt = p.CreatedAt
			update.UpdatedAt = time.Now().UTC()
			s.posts[i] = update
			return update, true
		}
	}
	return domain.Post{}, false
}

func (s *Store) DeletePost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return true
		}
	}
	return false
}

// SalesSummary aggregates orders created inside [from, to].
func (s *Store) SalesSummary(from, to time.Time) domain.SalesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := domain.SalesSummary{From: from, To: to}
	for id, o := range s.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		summary.OrderCount++
		summary.Revenue = summary.Revenue.Add(o.Total)
		for _, li := range s.details[id] {
			margin := li.Product.UnitPrice.Sub(li.Product.UnitCost)
			summary.Profit = summary.Profit.Add(margin.Mul(decimal.NewFromInt(int64(li.Quantity))))
		}
	}
	return summary
}

type seedVariant struct {
	Color             domain.Color `json:"color"`
	Size              domain.Size  `json:"size"`
	AvailableQuantity int          `json:"availableQuantity"`
}

type seedProduct struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Thumbnail string          `json:"thumbnail"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	Variants  []seedVariant   `json:"variants"`
}

// LoadSeedFile replaces the catalog with the products in a JSON seed file.
func (s *Store) LoadSeedFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seeds []seedProduct
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	s.mu.Lock()
	s.products = nil
	s.variants = make(map[string][]domain.Variant)
	s.mu.Unlock()
	for _, sp := range seeds {
		s.addSeedProduct(sp)
	}
	return nil
}

func (s *Store) addSeedProduct(sp seedProduct) {
	variants := make([]domain.Variant, 0, len(sp.Variants))
	for _, sv := range sp.Variants {
		variants = append(variants, domain.Variant{
			Color:             sv.Color,
			Size:              sv.Size,
			AvailableQuantity: sv.AvailableQuantity,
		})
	}
	s.AddProduct(domain.Product{
		Name:      sp.Name,
		Category:  sp.Category,
		Thumbnail: sp.Thumbnail,
		UnitPrice: sp.UnitPrice,
		UnitCost:  sp.UnitCost,
	}, variants)
}

// Seed fills the store with a small demo catalog for manual testing.
func (s *Store) Seed() {
	colors := []domain.Color{
		{ID: "c-black", Name: "Black", Code: "#000000"},
		{ID: "c-white", Name: "White", Code: "#ffffff"},
	}
	sizes := []domain.Size{
		{ID: "s-40", Name: "40", RangeMin: 250, RangeMax: 254},
		{ID: "s-42", Name: "42", RangeMin: 260, RangeMax: 264},
	}
	demo := []struct {
		name     string
		category string
		price    int64
		cost     int64
	}{
		{"Demo Runner", "shoes", 120, 70},
		{"Demo Court Classic", "shoes", 95, 55},
		{"Demo Trail Pro", "shoes", 140, 90},
	}
	for _, d := range demo {
		var variants []domain.Variant
		for _, c := range colors {
			for _, sz := range sizes {
				variants = append(variants, domain.Variant{
					Color:             c,
					Size:              sz,
					AvailableQuantity: 5,
				})
			}
		}
		s.AddProduct(domain.Product{
			Name:      d.name,
			Category:  d.category,
			UnitPrice: decimal.NewFromInt(d.price),
			UnitCost:  decimal.NewFromInt(d.cost),
		}, variants)
	}
}
