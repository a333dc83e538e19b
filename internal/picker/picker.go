// Package picker lets the user browse the paginated catalog, open the
// variant list for one product and commit a still-available color/size
// variant into the order draft.
package picker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"shop-backoffice/internal/backend"
	"shop-backoffice/internal/domain"
	"shop-backoffice/internal/draft"
)

// ErrStaleView indicates a pick was committed from a view opened against an
// older draft; the exclusion flags it shows can no longer be trusted.
var ErrStaleView = errors.New("picker view is stale")

// ErrOutOfStock indicates the variant has no available quantity left.
var ErrOutOfStock = errors.New("variant out of stock")

// Catalog is the slice of the backend client the picker needs.
type Catalog interface {
	ListProducts(ctx context.Context, p backend.ListProductsParams) (domain.Page[domain.Product], error)
	ListVariants(ctx context.Context, productID string) ([]domain.Variant, error)
}

// PickableVariant is a variant plus its availability for picking within the
// current draft.
type PickableVariant struct {
	domain.Variant
	AlreadySelected bool
}

// View is the variant list for one product, computed against a specific
// draft generation. Picks from an outdated view are rejected.
type View struct {
	Product    domain.ProductSnapshot
	Variants   []PickableVariant
	Generation uint64
}

// Flow drives browsing and picking for one draft.
type Flow struct {
	catalog Catalog
	draft   *draft.Draft
	log     *zap.Logger
}

func New(catalog Catalog, d *draft.Draft, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{catalog: catalog, draft: d, log: log}
}

// ListProducts fetches one catalog page. Pagination state belongs to the
// backend; failures leave no partial state behind.
func (f *Flow) ListProducts(ctx context.Context, p backend.ListProductsParams) (domain.Page[domain.Product], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	page, err := f.catalog.ListProducts(ctx, p)
	if err != nil {
		f.log.Warn("list products failed", zap.Int("page", p.Page), zap.Error(err))
		return domain.Page[domain.Product]{}, err
	}
	return page, nil
}

// Open fetches the variants of a product and flags the ones already in the
// draft. The exclusion set is recomputed from the draft on every open, never
// cached.
func (f *Flow) Open(ctx context.Context, product domain.Product) (*View, error) {
	variants, err := f.catalog.ListVariants(ctx, product.ID)
	if err != nil {
		f.log.Warn("list variants failed", zap.String("product", product.ID), zap.Error(err))
		return nil, err
	}
	selected := f.draft.SelectedIDs()
	view := &View{
		Product:    product.Snapshot(),
		Variants:   make([]PickableVariant, 0, len(variants)),
		Generation: f.draft.Generation(),
	}
	for _, v := range variants {
		_, taken := selected[v.ID]
		view.Variants = append(view.Variants, PickableVariant{Variant: v, AlreadySelected: taken})
	}
	return view, nil
}

// Pick commits one variant from a view into the draft with quantity one and
// the availability ceiling copied as the item's quantity limit.
//
// The draft membership is re-checked here as well as at Open time, so a view
// left open across other draft edits cannot double-add a variant.
func (f *Flow) Pick(view *View, variantID string) (domain.LineItem, error) {
	if view.Generation != f.draft.Generation() {
		return domain.LineItem{}, ErrStaleView
	}
	var variant *domain.Variant
	for i := range view.Variants {
		if view.Variants[i].ID == variantID {
			variant = &view.Variants[i].Variant
			break
		}
	}
	if variant == nil {
		return domain.LineItem{}, domain.ErrNotFound
	}
	if variant.AvailableQuantity < 1 {
		return domain.LineItem{}, ErrOutOfStock
	}
	if _, taken := f.draft.SelectedIDs()[variantID]; taken {
		return domain.LineItem{}, domain.ErrDuplicateItem
	}

	li := domain.LineItem{
		ItemID:          variant.ID,
		Product:         view.Product,
		Color:           variant.Color,
		Size:            variant.Size,
		Quantity:        1,
		LimitedQuantity: variant.AvailableQuantity,
	}
	if err := f.draft.Insert(li); err != nil {
		return domain.LineItem{}, err
	}
	inserted, _ := f.draft.Item(variant.ID)
	return inserted, nil
}
