// Package wizard sequences the order-entry steps (information, product,
// preview) over one shared draft and performs the final submission against
// the order collaborator.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-backoffice/internal/backend"
	"shop-backoffice/internal/domain"
	"shop-backoffice/internal/draft"
	"shop-backoffice/internal/notify"
)

type Step string

const (
	StepInformation Step = "information"
	StepProduct     Step = "product"
	StepPreview     Step = "preview"
	StepSubmitted   Step = "submitted"
)

type Mode int

const (
	// ModeCreate submits the whole draft as one create call.
	ModeCreate Mode = iota
	// ModeEdit updates the order first, then fans out per-item calls.
	ModeEdit
)

var (
	// ErrEmptyDraft blocks the product -> preview transition.
	ErrEmptyDraft = errors.New("draft has no line items")
	// ErrBusy rejects a submit while one is already in flight.
	ErrBusy = errors.New("submission already in progress")
)

// ValidationError lists the required customer fields that are still empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// StockError reports drafted quantities that no longer fit current stock.
type StockError struct {
	Issues []StockIssue
}

type StockIssue struct {
	ItemID      string
	ProductName string
	Wanted      int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock changed for %d drafted item(s)", len(e.Issues))
}

// OrderAPI is the slice of the backend client the wizard needs.
type OrderAPI interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	GetOrderLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error)
	CreateOrder(ctx context.Context, in backend.OrderCreate) (domain.Order, error)
	UpdateOrder(ctx context.Context, id string, in backend.OrderUpdate) (domain.Order, error)
	CreateLineItem(ctx context.Context, in backend.LineItemCreate) (domain.LineItem, error)
	UpdateLineItem(ctx context.Context, detailID string, in backend.LineItemUpdate) (domain.LineItem, error)
}

// StockLister re-reads current variant availability just before submission.
type StockLister interface {
	ListVariants(ctx context.Context, productID string) ([]domain.Variant, error)
}

// ItemOutcome is the result of one per-item submission call.
type ItemOutcome struct {
	ItemID      string
	ProductName string
	Created     bool
	Err         error
}

// Report is the aggregated result of a submission: the order-level call plus
// every per-item outcome, surfaced together once all calls settle.
type Report struct {
	Order    domain.Order
	Outcomes []ItemOutcome
}

// FailedItems returns the outcomes whose call failed.
func (r Report) FailedItems() []ItemOutcome {
	var failed []ItemOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Wizard carries one draft and one customer record across the steps. The
// draft itself has a single owner, the UI goroutine; Submit and LoadOrder run
// on worker goroutines while the UI keeps reading step, busy and customer, so
// those fields sit behind a mutex. The busy flag makes the UI stop mutating
// the draft while a submission reads it.
type Wizard struct {
	mode    Mode
	orderID string

	mu       sync.Mutex
	step     Step
	customer domain.CustomerInfo
	draft    *draft.Draft
	busy     bool

	api      OrderAPI
	stock    StockLister
	notifier notify.Notifier
	log      *zap.Logger
}

// NewCreate starts an empty add-order wizard.
func NewCreate(api OrderAPI, stock StockLister, notifier notify.Notifier, log *zap.Logger) *Wizard {
	return newWizard(ModeCreate, "", api, stock, notifier, log)
}

// NewEdit starts an edit-order wizard; call LoadOrder before using it.
func NewEdit(orderID string, api OrderAPI, stock StockLister, notifier notify.Notifier, log *zap.Logger) *Wizard {
	return newWizard(ModeEdit, orderID, api, stock, notifier, log)
}

func newWizard(mode Mode, orderID string, api OrderAPI, stock StockLister, notifier notify.Notifier, log *zap.Logger) *Wizard {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Logger{L: log}
	}
	return &Wizard{
		mode:     mode,
		orderID:  orderID,
		step:     StepInformation,
		draft:    draft.New(),
		api:      api,
		stock:    stock,
		notifier: notifier,
		log:      log,
	}
}

// LoadOrder pre-populates customer info and draft from a persisted order.
func (w *Wizard) LoadOrder(ctx context.Context) error {
	if w.mode != ModeEdit {
		return errors.New("load order only applies to edit mode")
	}
	order, err := w.api.GetOrder(ctx, w.orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", w.orderID, err)
	}
	items, err := w.api.GetOrderLineItems(ctx, w.orderID)
	if err != nil {
		return fmt.Errorf("load order %s items: %w", w.orderID, err)
	}
	// The backend's available stock excludes these units; stock checks at
	// submit time credit them back.
	for i := range items {
		items[i].PersistedQuantity = items[i].Quantity
	}
	loaded := draft.FromItems(items, order.ShippingCost)

	w.mu.Lock()
	w.customer = order.Customer
	w.draft = loaded
	w.mu.Unlock()
	return nil
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Mode() Mode      { return w.mode }
func (w *Wizard) OrderID() string { return w.orderID }

func (w *Wizard) Draft() *draft.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *Wizard) Customer() domain.CustomerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.customer
}

func (w *Wizard) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

func (w *Wizard) setStep(s Step) {
	w.mu.Lock()
	w.step = s
	w.mu.Unlock()
}

// SetCustomer replaces the customer record; steps never mutate wizard
// internals directly.
func (w *Wizard) SetCustomer(c domain.CustomerInfo) {
	w.mu.Lock()
	w.customer = c
	w.mu.Unlock()
}

// MissingCustomerFields lists the required fields that are still empty.
func MissingCustomerFields(c domain.CustomerInfo) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"first name", c.FirstName},
		{"phone", c.Phone},
		{"address", c.Address},
		{"payment method", c.PaymentMethod},
		{"status", c.Status},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Next advances one step, applying the guard for the current step. From the
// preview step it performs the submission.
func (w *Wizard) Next(ctx context.Context) error {
	switch w.Step() {
	case StepInformation:
		if missing := MissingCustomerFields(w.Customer()); len(missing) > 0 {
			err := &ValidationError{Fields: missing}
			w.notifier.Warn(err.Error())
			return err
		}
		w.setStep(StepProduct)
		return nil
	case StepProduct:
		if w.Draft().Len() == 0 {
			w.notifier.Warn("pick at least one product before continuing")
			return ErrEmptyDraft
		}
		w.setStep(StepPreview)
		return nil
	case StepPreview:
		_, err := w.Submit(ctx)
		return err
	default:
		return nil
	}
}

// Back navigates to the previous step. Always allowed; all accumulated state
// is preserved.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepProduct:
		w.step = StepInformation
	case StepPreview:
		w.step = StepProduct
	}
}

// Submit performs the final submission. On any order-level failure the
// wizard stays on the preview step so the user can retry; per-item outcomes
// are aggregated and surfaced together once every call has settled.
func (w *Wizard) Submit(ctx context.Context) (Report, error) {
	w.mu.Lock()
	if w.step != StepPreview {
		step := w.step
		w.mu.Unlock()
		return Report{}, fmt.Errorf("cannot submit from step %q", step)
	}
	if w.busy {
		w.mu.Unlock()
		return Report{}, ErrBusy
	}
	w.busy = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	if missing := MissingCustomerFields(w.Customer()); len(missing) > 0 {
		err := &ValidationError{Fields: missing}
		w.notifier.Warn(err.Error())
		return Report{}, err
	}
	if w.Draft().Len() == 0 {
		w.notifier.Warn("draft is empty")
		return Report{}, ErrEmptyDraft
	}
	if err := w.revalidateStock(ctx); err != nil {
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			for _, issue := range stockErr.Issues {
				w.notifier.Warn(fmt.Sprintf("%s: only %d left in stock, drafted %d", issue.ProductName, issue.Available, issue.Wanted))
			}
		} else {
			w.notifier.Error("could not verify stock: " + err.Error())
		}
		return Report{}, err
	}

	var report Report
	var err error
	switch w.mode {
	case ModeCreate:
		report, err = w.submitCreate(ctx)
	default:
		report, err = w.submitEdit(ctx)
	}
	if err != nil {
		w.notifier.Error("order submission failed: " + err.Error())
		return Report{}, err
	}

	w.setStep(StepSubmitted)
	w.notifier.Success("order " + report.Order.ID + " saved")
	for _, o := range report.FailedItems() {
		w.notifier.Error(fmt.Sprintf("item %s (%s) was not saved: %v", o.ItemID, o.ProductName, o.Err))
	}
	return report, nil
}

// revalidateStock re-reads variant availability for every drafted product.
// Stock may have moved since the variants were picked; a drafted quantity
// above current availability blocks the submission. Units the backend
// already holds for this order are credited back, so an unmodified edit
// never fails on its own reservation.
func (w *Wizard) revalidateStock(ctx context.Context) error {
	items := w.Draft().Items()
	available := make(map[string]int, len(items))
	seen := make(map[string]struct{})
	for _, li := range items {
		if _, ok := seen[li.Product.ID]; ok {
			continue
		}
		seen[li.Product.ID] = struct{}{}
		variants, err := w.stock.ListVariants(ctx, li.Product.ID)
		if err != nil {
			return fmt.Errorf("list variants for %s: %w", li.Product.ID, err)
		}
		for _, v := range variants {
			available[v.ID] = v.AvailableQuantity
		}
	}

	var issues []StockIssue
	for _, li := range items {
		// A variant missing from the fresh listing counts as zero stock.
		// The effective ceiling adds back the units this order reserves.
		if effective := available[li.ItemID] + li.PersistedQuantity; li.Quantity > effective {
			issues = append(issues, StockIssue{
				ItemID:      li.ItemID,
				ProductName: li.Product.Name,
				Wanted:      li.Quantity,
				Available:   effective,
			})
		}
	}
	if len(issues) > 0 {
		return &StockError{Issues: issues}
	}
	return nil
}

func (w *Wizard) submitCreate(ctx context.Context) (Report, error) {
	d := w.Draft()
	items := d.Items()
	in := backend.OrderCreate{
		Customer:     w.Customer(),
		ProductCost:  d.Subtotal(),
		ShippingCost: d.ShippingCost(),
		Total:        d.GrandTotal(),
		Items:        make([]backend.LineItemCreate, 0, len(items)),
	}
	for _, li := range items {
		in.Items = append(in.Items, backend.LineItemCreate{
			VariantID: li.ItemID,
			ProductID: li.Product.ID,
			Quantity:  li.Quantity,
			UnitPrice: li.Product.UnitPrice,
		})
	}
	order, err := w.api.CreateOrder(ctx, in)
	if err != nil {
		return Report{}, err
	}
	w.log.Info("order created", zap.String("order", order.ID), zap.Int("items", len(items)))
	return Report{Order: order}, nil
}

// submitEdit updates the order record first and aborts on failure without
// touching any line item. The per-item calls then run concurrently; their
// outcomes are collected and reported together, never fire-and-forget.
func (w *Wizard) submitEdit(ctx context.Context) (Report, error) {
	d := w.Draft()
	order, err := w.api.UpdateOrder(ctx, w.orderID, backend.OrderUpdate{
		Customer:     w.Customer(),
		ProductCost:  d.Subtotal(),
		ShippingCost: d.ShippingCost(),
		Total:        d.GrandTotal(),
	})
	if err != nil {
		return Report{}, err
	}

	items := d.Items()
	outcomes := make([]ItemOutcome, len(items))
	var g errgroup.Group
	for i, li := range items {
		i, li := i, li
		g.Go(func() error {
			outcome := ItemOutcome{ItemID: li.ItemID, ProductName: li.Product.Name}
			if li.Persisted() {
				_, err := w.api.UpdateLineItem(ctx, li.DetailID, backend.LineItemUpdate{Quantity: li.Quantity})
				outcome.Err = err
			} else {
				outcome.Created = true
				_, err := w.api.CreateLineItem(ctx, backend.LineItemCreate{
					OrderID:   w.orderID,
					VariantID: li.ItemID,
					ProductID: li.Product.ID,
					Quantity:  li.Quantity,
					UnitPrice: li.Product.UnitPrice,
				})
				outcome.Err = err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	w.log.Info("order updated", zap.String("order", order.ID), zap.Int("items", len(items)))
	return Report{Order: order, Outcomes: outcomes}, nil
}
