// Package draft holds the in-progress order: the ordered line items a user
// has picked and the derived totals. It is the single source of truth for
// "what is in this order" while the wizard is open.
package draft

import (
	"github.com/shopspring/decimal"

	"shop-backoffice/internal/domain"
)

// Draft owns the mutable line-item sequence and its totals for one editing
// session. It is not safe for concurrent use; the wizard owns it exclusively.
//
// The product-cost subtotal is adjusted by delta on every mutation instead of
// re-summed, so each operation must account for exactly the line total it
// changes. The tests cross-check every mutation against a full re-sum.
type Draft struct {
	items      []domain.LineItem
	subtotal   decimal.Decimal
	shipping   decimal.Decimal
	generation uint64
}

// New returns an empty draft.
func New() *Draft {
	return &Draft{}
}

// FromItems pre-populates a draft from an existing order's persisted line
// items, recomputing each line total from quantity and unit price. Backend
// data is not trusted to satisfy the draft invariants: duplicate variant ids
// are dropped, quantities are floored at one, and a ceiling below the
// persisted quantity is raised to it, since the order already holds those
// units.
func FromItems(items []domain.LineItem, shipping decimal.Decimal) *Draft {
	d := &Draft{shipping: shipping}
	for _, li := range items {
		if d.indexOf(li.ItemID) >= 0 {
			continue
		}
		if li.Quantity < 1 {
			li.Quantity = 1
		}
		if li.LimitedQuantity < li.Quantity {
			li.LimitedQuantity = li.Quantity
		}
		li.LineTotal = lineTotal(li)
		d.items = append(d.items, li)
		d.subtotal = d.subtotal.Add(li.LineTotal)
	}
	return d
}

func lineTotal(li domain.LineItem) decimal.Decimal {
	return li.Product.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Insert appends a new line item. The variant id must not already be present
// and the quantity must respect the item's stock snapshot.
func (d *Draft) Insert(li domain.LineItem) error {
	if d.indexOf(li.ItemID) >= 0 {
		return domain.ErrDuplicateItem
	}
	if li.Quantity < 1 || li.Quantity > li.LimitedQuantity {
		return domain.ErrQuantityOutOfRange
	}
	li.LineTotal = lineTotal(li)
	d.items = append(d.items, li)
	d.subtotal = d.subtotal.Add(li.LineTotal)
	d.generation++
	return nil
}

// Remove deletes the line item with the given variant id. Removing an absent
// id is a no-op; stale UI closures may fire remove twice.
func (d *Draft) Remove(itemID string) {
	i := d.indexOf(itemID)
	if i < 0 {
		return
	}
	d.subtotal = d.subtotal.Sub(d.items[i].LineTotal)
	d.items = append(d.items[:i], d.items[i+1:]...)
	d.generation++
}

// Increment raises the quantity of a line item by one, up to its stock
// snapshot.
func (d *Draft) Increment(itemID string) error {
	i := d.indexOf(itemID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if d.items[i].Quantity >= d.items[i].LimitedQuantity {
		return domain.ErrQuantityAtLimit
	}
	return d.applyQuantity(i, d.items[i].Quantity+1)
}

// Decrement lowers the quantity of a line item by one, never below one.
func (d *Draft) Decrement(itemID string) error {
	i := d.indexOf(itemID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if d.items[i].Quantity <= 1 {
		return domain.ErrQuantityAtMinimum
	}
	return d.applyQuantity(i, d.items[i].Quantity-1)
}

// SetQuantity sets an exact quantity within [1, limitedQuantity].
func (d *Draft) SetQuantity(itemID string, quantity int) error {
	i := d.indexOf(itemID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if quantity < 1 || quantity > d.items[i].LimitedQuantity {
		return domain.ErrQuantityOutOfRange
	}
	return d.applyQuantity(i, quantity)
}

func (d *Draft) applyQuantity(i, quantity int) error {
	old := d.items[i].LineTotal
	d.items[i].Quantity = quantity
	d.items[i].LineTotal = lineTotal(d.items[i])
	d.subtotal = d.subtotal.Add(d.items[i].LineTotal.Sub(old))
	return nil
}

// SetShippingCost replaces the shipping cost input. Shipping is an
// independent field, never derived from the items.
func (d *Draft) SetShippingCost(cost decimal.Decimal) {
	d.shipping = cost
}

// Items returns a copy of the line items in insertion order.
func (d *Draft) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Item returns the line item for a variant id, if present.
func (d *Draft) Item(itemID string) (domain.LineItem, bool) {
	i := d.indexOf(itemID)
	if i < 0 {
		return domain.LineItem{}, false
	}
	return d.items[i], true
}

// SelectedIDs returns the set of variant ids currently in the draft. The
// picker recomputes this on every open and every commit.
func (d *Draft) SelectedIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.items))
	for _, li := range d.items {
		ids[li.ItemID] = struct{}{}
	}
	return ids
}

func (d *Draft) Len() int { return len(d.items) }

func (d *Draft) Subtotal() decimal.Decimal { return d.subtotal }

func (d *Draft) ShippingCost() decimal.Decimal { return d.shipping }

func (d *Draft) GrandTotal() decimal.Decimal { return d.subtotal.Add(d.shipping) }

// Generation changes whenever draft membership changes. Asynchronous picker
// snapshots carry the generation they were computed against so stale
// responses can be discarded.
func (d *Draft) Generation() uint64 { return d.generation }

// Reset discards all items and totals, keeping the draft usable.
func (d *Draft) Reset() {
	d.items = nil
	d.subtotal = decimal.Zero
	d.shipping = decimal.Zero
	d.generation++
}

func (d *Draft) indexOf(itemID string) int {
	for i, li := range d.items {
		if li.ItemID == itemID {
			return i
		}
	}
	return -1
}
