package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/backend"
	"shop-backoffice/internal/domain"
	"shop-backoffice/internal/notify"
)

type stubAPI struct {
	mu            sync.Mutex
	calls         []string
	order         domain.Order
	orderItems    []domain.LineItem
	getErr        error
	getItemsErr   error
	createErr     error
	updateErr     error
	createLineErr map[string]error
	updateLineErr map[string]error
	lastCreate    backend.OrderCreate
	lastUpdate    backend.OrderUpdate
	createdLines  []backend.LineItemCreate
	updatedLines  map[string]backend.LineItemUpdate
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAPI) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.record("getOrder")
	return s.order, s.getErr
}

func (s *stubAPI) GetOrderLineItems(_ context.Context, orderID string) ([]domain.LineItem, error) {
	s.record("getOrderLineItems")
	return s.orderItems, s.getItemsErr
}

func (s *stubAPI) CreateOrder(_ context.Context, in backend.OrderCreate) (domain.Order, error) {
	s.record("createOrder")
	s.lastCreate = in
	return s.order, s.createErr
}

func (s *stubAPI) UpdateOrder(_ context.Context, id string, in backend.OrderUpdate) (domain.Order, error) {
	s.record("updateOrder")
	s.lastUpdate = in
	return s.order, s.updateErr
}

func (s *stubAPI) CreateLineItem(_ context.Context, in backend.LineItemCreate) (domain.LineItem, error) {
	s.mu.Lock()
	s.calls = append(s.calls, "createLineItem")
	s.createdLines = append(s.createdLines, in)
	err := s.createLineErr[in.VariantID]
	s.mu.Unlock()
	return domain.LineItem{ItemID: in.VariantID}, err
}

func (s *stubAPI) UpdateLineItem(_ context.Context, detailID string, in backend.LineItemUpdate) (domain.LineItem, error) {
	s.mu.Lock()
	if s.updatedLines == nil {
		s.updatedLines = make(map[string]backend.LineItemUpdate)
	}
	s.calls = append(s.calls, "updateLineItem")
	s.updatedLines[detailID] = in
	err := s.updateLineErr[detailID]
	s.mu.Unlock()
	return domain.LineItem{DetailID: detailID}, err
}

type stubStock struct {
	variants map[string][]domain.Variant
	err      error
}

func (s *stubStock) ListVariants(_ context.Context, productID string) ([]domain.Variant, error) {
	return s.variants[productID], s.err
}

func fullCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName:     "Ada",
		Phone:         "0123456789",
		Address:       "1 Main St",
		PaymentMethod: "cod",
		Status:        "pending",
	}
}

func draftItem(variantID, productID string, price int64, qty, limit int) domain.LineItem {
	return domain.LineItem{
		ItemID:          variantID,
		Product:         domain.ProductSnapshot{ID: productID, Name: "Prod " + productID, UnitPrice: decimal.NewFromInt(price)},
		Quantity:        qty,
		LimitedQuantity: limit,
	}
}

func stockFor(items ...domain.LineItem) *stubStock {
	s := &stubStock{variants: map[string][]domain.Variant{}}
	for _, li := range items {
		s.variants[li.Product.ID] = append(s.variants[li.Product.ID], domain.Variant{
			ID:                li.ItemID,
			ProductID:         li.Product.ID,
			AvailableQuantity: li.LimitedQuantity,
		})
	}
	return s
}

func TestInformationGuardBlocksMissingFields(t *testing.T) {
	rec := &notify.Recorder{}
	w := NewCreate(&stubAPI{}, &stubStock{}, rec, nil)

	customer := fullCustomer()
	customer.Phone = ""
	customer.Address = " "
	w.SetCustomer(customer)

	err := w.Next(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", verr.Fields)
	}
	if w.Step() != StepInformation {
		t.Fatalf("blocked transition moved step to %s", w.Step())
	}
	if entries := rec.Entries(); len(entries) != 1 || entries[0].Level != notify.LevelWarn {
		t.Fatalf("expected one warning, got %+v", entries)
	}
}

func TestInformationGuardPasses(t *testing.T) {
	w := NewCreate(&stubAPI{}, &stubStock{}, &notify.Recorder{}, nil)
	w.SetCustomer(fullCustomer())
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	if w.Step() != StepProduct {
		t.Fatalf("step %s, want product", w.Step())
	}
}

func TestProductGuardRequiresItems(t *testing.T) {
	w := NewCreate(&stubAPI{}, &stubStock{}, &notify.Recorder{}, nil)
	w.SetCustomer(fullCustomer())
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to product: %v", err)
	}

	if err := w.Next(context.Background()); !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("expected empty draft error, got %v", err)
	}
	if w.Step() != StepProduct {
		t.Fatalf("blocked transition moved step to %s", w.Step())
	}

	if err := w.Draft().Insert(draftItem("v1", "p1", 100, 1, 5)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to preview: %v", err)
	}
	if w.Step() != StepPreview {
		t.Fatalf("step %s, want preview", w.Step())
	}
}

func TestBackPreservesState(t *testing.T) {
	w := NewCreate(&stubAPI{}, &stubStock{}, &notify.Recorder{}, nil)
	w.SetCustomer(fullCustomer())
	_ = w.Next(context.Background())
	_ = w.Draft().Insert(draftItem("v1", "p1", 100, 1, 5))
	_ = w.Next(context.Background())

	w.Back()
	if w.Step() != StepProduct {
		t.Fatalf("step %s, want product", w.Step())
	}
	w.Back()
	if w.Step() != StepInformation {
		t.Fatalf("step %s, want information", w.Step())
	}
	w.Back()
	if w.Step() != StepInformation {
		t.Fatalf("back from first step moved to %s", w.Step())
	}
	if w.Draft().Len() != 1 || w.Customer().FirstName != "Ada" {
		t.Fatalf("backward navigation lost state")
	}
}

func TestSubmitOnlyFromPreview(t *testing.T) {
	w := NewCreate(&stubAPI{}, &stubStock{}, &notify.Recorder{}, nil)
	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected error submitting from information step")
	}
}

func toPreview(t *testing.T, w *Wizard, items ...domain.LineItem) {
	t.Helper()
	w.SetCustomer(fullCustomer())
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to product: %v", err)
	}
	for _, li := range items {
		if err := w.Draft().Insert(li); err != nil {
			t.Fatalf("insert %s: %v", li.ItemID, err)
		}
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to preview: %v", err)
	}
}

func TestSubmitCreateSendsWholeDraft(t *testing.T) {
	api := &stubAPI{order: domain.Order{ID: "o1"}}
	a := draftItem("v1", "p1", 100, 2, 5)
	b := draftItem("v2", "p2", 50, 1, 3)
	rec := &notify.Recorder{}
	w := NewCreate(api, stockFor(a, b), rec, nil)
	toPreview(t, w, a, b)
	w.Draft().SetShippingCost(decimal.NewFromInt(20))

	report, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if w.Step() != StepSubmitted {
		t.Fatalf("step %s, want submitted", w.Step())
	}
	if report.Order.ID != "o1" {
		t.Fatalf("unexpected order: %+v", report.Order)
	}
	if len(api.lastCreate.Items) != 2 {
		t.Fatalf("create payload items: %+v", api.lastCreate.Items)
	}
	if !api.lastCreate.ProductCost.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("product cost %s, want 250", api.lastCreate.ProductCost)
	}
	if !api.lastCreate.Total.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("total %s, want 270", api.lastCreate.Total)
	}
	entries := rec.Entries()
	if len(entries) == 0 || entries[len(entries)-1].Level != notify.LevelSuccess {
		t.Fatalf("expected success notification, got %+v", entries)
	}
}

func TestSubmitCreateFailureStaysOnPreview(t *testing.T) {
	api := &stubAPI{createErr: errors.New("backend down")}
	a := draftItem("v1", "p1", 100, 1, 5)
	rec := &notify.Recorder{}
	w := NewCreate(api, stockFor(a), rec, nil)
	toPreview(t, w, a)

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if w.Step() != StepPreview {
		t.Fatalf("failed submit moved step to %s", w.Step())
	}
	if w.Draft().Len() != 1 {
		t.Fatalf("failed submit mutated draft")
	}
	entries := rec.Entries()
	if len(entries) == 0 || entries[len(entries)-1].Level != notify.LevelError {
		t.Fatalf("expected error notification, got %+v", entries)
	}
}

func TestSubmitBlocksWhenStockDropped(t *testing.T) {
	api := &stubAPI{order: domain.Order{ID: "o1"}}
	a := draftItem("v1", "p1", 100, 4, 5)
	stock := stockFor(a)
	stock.variants["p1"][0].AvailableQuantity = 2
	rec := &notify.Recorder{}
	w := NewCreate(api, stock, rec, nil)
	toPreview(t, w, a)

	_, err := w.Submit(context.Background())
	var sErr *StockError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected stock error, got %v", err)
	}
	if len(sErr.Issues) != 1 || sErr.Issues[0].Available != 2 || sErr.Issues[0].Wanted != 4 {
		t.Fatalf("unexpected issues: %+v", sErr.Issues)
	}
	if len(api.calls) != 0 {
		t.Fatalf("stock failure still called the order API: %v", api.calls)
	}
	if w.Step() != StepPreview {
		t.Fatalf("step %s, want preview", w.Step())
	}
}

func TestSubmitTreatsVanishedVariantAsZeroStock(t *testing.T) {
	api := &stubAPI{order: domain.Order{ID: "o1"}}
	a := draftItem("v1", "p1", 100, 1, 5)
	w := NewCreate(api, &stubStock{variants: map[string][]domain.Variant{"p1": nil}}, &notify.Recorder{}, nil)
	toPreview(t, w, a)

	_, err := w.Submit(context.Background())
	var sErr *StockError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected stock error, got %v", err)
	}
}

func TestSubmitEditAbortsWhenOrderUpdateFails(t *testing.T) {
	api := &stubAPI{updateErr: errors.New("conflict")}
	a := draftItem("v1", "p1", 100, 1, 5)
	w := NewEdit("o1", api, stockFor(a), &notify.Recorder{}, nil)
	toPreview(t, w, a)

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	for _, call := range api.calls {
		if call == "createLineItem" || call == "updateLineItem" {
			t.Fatalf("item calls issued after failed order update: %v", api.calls)
		}
	}
	if w.Step() != StepPreview {
		t.Fatalf("step %s, want preview", w.Step())
	}
}

func TestSubmitEditRoutesItemsByPersistence(t *testing.T) {
	api := &stubAPI{order: domain.Order{ID: "o1"}}
	existing := draftItem("v1", "p1", 100, 2, 5)
	existing.DetailID = "d1"
	fresh := draftItem("v2", "p2", 50, 1, 3)
	w := NewEdit("o1", api, stockFor(existing, fresh), &notify.Recorder{}, nil)
	toPreview(t, w, existing, fresh)

	report, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if w.Step() != StepSubmitted {
		t.Fatalf("step %s, want submitted", w.Step())
	}
	if len(api.calls) == 0 || api.calls[0] != "updateOrder" {
		t.Fatalf("order update must come first: %v", api.calls)
	}
	if got := api.updatedLines["d1"]; got.Quantity != 2 {
		t.Fatalf("persisted item not updated: %+v", api.updatedLines)
	}
	if len(api.createdLines) != 1 || api.createdLines[0].VariantID != "v2" || api.createdLines[0].OrderID != "o1" {
		t.Fatalf("new item not created: %+v", api.createdLines)
	}
	if len(report.Outcomes) != 2 || len(report.FailedItems()) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSubmitEditAggregatesItemFailures(t *testing.T) {
	api := &stubAPI{
		order:         domain.Order{ID: "o1"},
		createLineErr: map[string]error{"v2": errors.New("rejected")},
	}
	a := draftItem("v1", "p1", 100, 1, 5)
	b := draftItem("v2", "p2", 50, 1, 3)
	c := draftItem("v3", "p3", 10, 1, 9)
	rec := &notify.Recorder{}
	w := NewEdit("o1", api, stockFor(a, b, c), rec, nil)
	toPreview(t, w, a, b, c)

	report, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("expected an outcome per item, got %+v", report.Outcomes)
	}
	failed := report.FailedItems()
	if len(failed) != 1 || failed[0].ItemID != "v2" {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	// One item failing must not block its siblings.
	if len(api.createdLines) != 3 {
		t.Fatalf("expected all three create calls, got %d", len(api.createdLines))
	}
	var sawItemError bool
	for _, e := range rec.Entries() {
		if e.Level == notify.LevelError {
			sawItemError = true
		}
	}
	if !sawItemError {
		t.Fatalf("item failure was not surfaced: %+v", rec.Entries())
	}
}

func TestSubmitEditUnchangedOrderPassesStockCheck(t *testing.T) {
	// The backend reserved 3 of 5 units for this order, so the live listing
	// reports 2. Resubmitting the untouched order must not trip on its own
	// reservation.
	api := &stubAPI{
		order: domain.Order{ID: "o1", Customer: fullCustomer()},
		orderItems: []domain.LineItem{
			{ItemID: "v1", DetailID: "d1", Product: domain.ProductSnapshot{ID: "p1", Name: "Prod p1", UnitPrice: decimal.NewFromInt(100)}, Quantity: 3, LimitedQuantity: 5},
		},
	}
	stock := &stubStock{variants: map[string][]domain.Variant{
		"p1": {{ID: "v1", ProductID: "p1", AvailableQuantity: 2}},
	}}
	w := NewEdit("o1", api, stock, &notify.Recorder{}, nil)
	if err := w.LoadOrder(context.Background()); err != nil {
		t.Fatalf("load order: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to product: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("to preview: %v", err)
	}

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("unmodified resubmit blocked: %v", err)
	}
	if w.Step() != StepSubmitted {
		t.Fatalf("step %s, want submitted", w.Step())
	}
	if got := api.updatedLines["d1"]; got.Quantity != 3 {
		t.Fatalf("persisted item not updated: %+v", api.updatedLines)
	}
}

func TestSubmitEditBlocksIncreaseBeyondEffectiveStock(t *testing.T) {
	// 3 units reserved by this order plus 1 still available: the effective
	// ceiling is 4, so raising the line to 5 must fail.
	api := &stubAPI{
		order: domain.Order{ID: "o1", Customer: fullCustomer()},
		orderItems: []domain.LineItem{
			{ItemID: "v1", DetailID: "d1", Product: domain.ProductSnapshot{ID: "p1", Name: "Prod p1", UnitPrice: decimal.NewFromInt(100)}, Quantity: 3, LimitedQuantity: 5},
		},
	}
	stock := &stubStock{variants: map[string][]domain.Variant{
		"p1": {{ID: "v1", ProductID: "p1", AvailableQuantity: 1}},
	}}
	w := NewEdit("o1", api, stock, &notify.Recorder{}, nil)
	if err := w.LoadOrder(context.Background()); err != nil {
		t.Fatalf("load order: %v", err)
	}
	_ = w.Next(context.Background())
	if err := w.Draft().SetQuantity("v1", 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	_ = w.Next(context.Background())

	_, err := w.Submit(context.Background())
	var sErr *StockError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected stock error, got %v", err)
	}
	if len(sErr.Issues) != 1 || sErr.Issues[0].Wanted != 5 || sErr.Issues[0].Available != 4 {
		t.Fatalf("unexpected issues: %+v", sErr.Issues)
	}
	if got := api.updatedLines["d1"]; got.Quantity != 0 {
		t.Fatalf("blocked submit still wrote the item: %+v", api.updatedLines)
	}
}

type slowAPI struct {
	stubAPI
	started chan struct{}
	release chan struct{}
}

func (s *slowAPI) CreateOrder(ctx context.Context, in backend.OrderCreate) (domain.Order, error) {
	close(s.started)
	<-s.release
	return s.stubAPI.CreateOrder(ctx, in)
}

func TestSubmitWhileBusyReturnsErrBusy(t *testing.T) {
	a := draftItem("v1", "p1", 100, 1, 5)
	api := &slowAPI{
		stubAPI: stubAPI{order: domain.Order{ID: "o1"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := NewCreate(api, stockFor(a), &notify.Recorder{}, nil)
	toPreview(t, w, a)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-api.started

	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if !w.Busy() {
		t.Fatalf("wizard not busy while a submission is in flight")
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if w.Step() != StepSubmitted {
		t.Fatalf("step %s, want submitted", w.Step())
	}
}

func TestLoadOrderPopulatesDraft(t *testing.T) {
	api := &stubAPI{
		order: domain.Order{
			ID:           "o1",
			Customer:     fullCustomer(),
			ShippingCost: decimal.NewFromInt(15),
		},
		orderItems: []domain.LineItem{
			{ItemID: "v1", DetailID: "d1", Product: domain.ProductSnapshot{ID: "p1", UnitPrice: decimal.NewFromInt(100)}, Quantity: 2, LimitedQuantity: 5},
		},
	}
	w := NewEdit("o1", api, &stubStock{}, &notify.Recorder{}, nil)
	if err := w.LoadOrder(context.Background()); err != nil {
		t.Fatalf("load order: %v", err)
	}
	if w.Customer().FirstName != "Ada" {
		t.Fatalf("customer not loaded: %+v", w.Customer())
	}
	if w.Draft().Len() != 1 || !w.Draft().Subtotal().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("draft not loaded, subtotal %s", w.Draft().Subtotal())
	}
	if !w.Draft().ShippingCost().Equal(decimal.NewFromInt(15)) {
		t.Fatalf("shipping not loaded: %s", w.Draft().ShippingCost())
	}
}

func TestLoadOrderErrors(t *testing.T) {
	api := &stubAPI{getErr: errors.New("boom")}
	w := NewEdit("o1", api, &stubStock{}, &notify.Recorder{}, nil)
	if err := w.LoadOrder(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	w2 := NewCreate(&stubAPI{}, &stubStock{}, &notify.Recorder{}, nil)
	if err := w2.LoadOrder(context.Background()); err == nil {
		t.Fatalf("load order should be edit-only")
	}
}
