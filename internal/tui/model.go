// Package tui renders the order wizard in the terminal: customer
// information, paginated product browsing with a variant picker, preview and
// submission. One wizard instance owns the draft; every network call runs as
// an asynchronous command while the model's busy flag disables re-entrant
// triggers.
package tui

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"shop-backoffice/internal/backend"
	"shop-backoffice/internal/domain"
	"shop-backoffice/internal/notify"
	"shop-backoffice/internal/picker"
	"shop-backoffice/internal/wizard"
)

type focusArea int

const (
	focusCatalog focusArea = iota
	focusDraft
)

type infoField struct {
	label string
	value string
}

// Model is the bubbletea model for the wizard.
type Model struct {
	wiz      *wizard.Wizard
	flow     *picker.Flow
	notes    *notify.Recorder
	pageSize int

	// information step
	fields   []infoField
	fieldIdx int
	loadErr  string

	// product step
	products   domain.Page[domain.Product]
	productIdx int
	search     string
	searching  bool
	focus      focusArea
	draftIdx   int
	reqSeq     uint64

	// variant picker overlay
	pickerView *picker.View
	pickerOpen bool
	pickerIdx  int

	// preview step
	shippingEdit bool
	shippingBuf  string

	busy     bool
	status   string
	toasts   []notify.Entry
	finished bool
}

// New builds the model. The recorder must be the same notifier the wizard
// reports through, so warnings land in the toast area.
func New(wiz *wizard.Wizard, flow *picker.Flow, notes *notify.Recorder, pageSize int) Model {
	m := Model{
		wiz:      wiz,
		flow:     flow,
		notes:    notes,
		pageSize: pageSize,
		status:   "Ready",
	}
	if wiz.Mode() == wizard.ModeEdit {
		m.busy = true
		m.status = "Loading order..."
	}
	c := wiz.Customer()
	m.fields = []infoField{
		{"First name", c.FirstName},
		{"Last name", c.LastName},
		{"Phone", c.Phone},
		{"Address", c.Address},
		{"Payment method", c.PaymentMethod},
		{"Status", c.Status},
	}
	return m
}

func (m Model) customerFromFields() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName:     m.fields[0].value,
		LastName:      m.fields[1].value,
		Phone:         m.fields[2].value,
		Address:       m.fields[3].value,
		PaymentMethod: m.fields[4].value,
		Status:        m.fields[5].value,
	}
}

func (m Model) Init() tea.Cmd {
	if m.wiz.Mode() == wizard.ModeEdit {
		return loadOrderCmd(m.wiz)
	}
	return nil
}

type productsMsg struct {
	page  domain.Page[domain.Product]
	err   error
	reqID uint64
}

type pickerMsg struct {
	view *picker.View
	err  error
}

type submitMsg struct {
	report wizard.Report
	err    error
}

type orderLoadedMsg struct {
	err error
}

func loadOrderCmd(w *wizard.Wizard) tea.Cmd {
	return func() tea.Msg {
		return orderLoadedMsg{err: w.LoadOrder(context.Background())}
	}
}

func listProductsCmd(flow *picker.Flow, params backend.ListProductsParams, reqID uint64) tea.Cmd {
	return func() tea.Msg {
		page, err := flow.ListProducts(context.Background(), params)
		return productsMsg{page: page, err: err, reqID: reqID}
	}
}

func openPickerCmd(flow *picker.Flow, product domain.Product) tea.Cmd {
	return func() tea.Msg {
		view, err := flow.Open(context.Background(), product)
		return pickerMsg{view: view, err: err}
	}
}

func submitCmd(w *wizard.Wizard) tea.Cmd {
	return func() tea.Msg {
		report, err := w.Submit(context.Background())
		return submitMsg{report: report, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case orderLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			m.status = "Failed to load order"
		} else {
			c := m.wiz.Customer()
			m.fields[0].value = c.FirstName
			m.fields[1].value = c.LastName
			m.fields[2].value = c.Phone
			m.fields[3].value = c.Address
			m.fields[4].value = c.PaymentMethod
			m.fields[5].value = c.Status
			m.status = "Order loaded"
		}
	case productsMsg:
		// A newer page request supersedes this response; only the matching
		// one may unlock the UI.
		if msg.reqID != m.reqSeq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.status = "Could not load products: " + msg.err.Error()
			return m, nil
		}
		m.products = msg.page
		if m.productIdx >= len(m.products.Items) {
			m.productIdx = 0
		}
		m.status = fmt.Sprintf("Page %d/%d", m.products.Page, max(m.products.TotalPages, 1))
	case pickerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Could not load variants: " + msg.err.Error()
			return m, nil
		}
		// Discard a view computed against an older draft.
		if msg.view.Generation != m.wiz.Draft().Generation() {
			return m, nil
		}
		m.pickerView = msg.view
		m.pickerOpen = true
		m.pickerIdx = 0
	case submitMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Submission blocked: " + msg.err.Error()
		} else {
			m.status = "Order " + msg.report.Order.ID + " saved"
			m.finished = true
		}
	}
	m.drainToasts()
	return m, nil
}

func (m *Model) drainToasts() {
	m.toasts = append(m.toasts, m.notes.Drain()...)
	if n := len(m.toasts); n > 4 {
		m.toasts = m.toasts[n-4:]
	}
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.finished {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch m.wiz.Step() {
	case wizard.StepInformation:
		return m.updateInformation(msg)
	case wizard.StepProduct:
		if m.pickerOpen {
			return m.updatePicker(key)
		}
		return m.updateProduct(msg)
	case wizard.StepPreview:
		return m.updatePreview(msg)
	}
	return m, nil
}

func (m Model) updateInformation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.fieldIdx > 0 {
			m.fieldIdx--
		}
	case "down", "tab":
		if m.fieldIdx < len(m.fields)-1 {
			m.fieldIdx++
		}
	case "backspace":
		v := m.fields[m.fieldIdx].value
		if v != "" {
			m.fields[m.fieldIdx].value = v[:len(v)-1]
		}
	case "enter":
		m.wiz.SetCustomer(m.customerFromFields())
		if err := m.wiz.Next(context.Background()); err == nil {
			m.busy = true
			m.reqSeq++
			m.drainToasts()
			return m, listProductsCmd(m.flow, m.listParams(1), m.reqSeq)
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.fields[m.fieldIdx].value += string(msg.Runes)
		}
	}
	m.drainToasts()
	return m, nil
}

func (m Model) listParams(page int) backend.ListProductsParams {
	return backend.ListProductsParams{Page: page, PageSize: m.pageSize, Search: m.search}
}

func (m Model) updateProduct(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.searching {
		switch key {
		case "enter", "esc":
			m.searching = false
			m.busy = true
			m.reqSeq++
			return m, listProductsCmd(m.flow, m.listParams(1), m.reqSeq)
		case "backspace":
			if m.search != "" {
				m.search = m.search[:len(m.search)-1]
			}
		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.search += string(msg.Runes)
			}
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search = ""
	case "tab":
		if m.focus == focusCatalog {
			m.focus = focusDraft
		} else {
			m.focus = focusCatalog
		}
	case "b":
		m.wiz.Back()
	case "enter":
		if m.focus == focusCatalog && m.productIdx < len(m.products.Items) {
			m.busy = true
			return m, openPickerCmd(m.flow, m.products.Items[m.productIdx])
		}
	case "n":
		m.wiz.SetCustomer(m.customerFromFields())
		if err := m.wiz.Next(context.Background()); err == nil {
			m.shippingBuf = m.wiz.Draft().ShippingCost().String()
		}
	case "up":
		m.moveSelection(-1)
	case "down":
		m.moveSelection(1)
	case "left":
		if m.products.Page > 1 {
			m.busy = true
			m.reqSeq++
			return m, listProductsCmd(m.flow, m.listParams(m.products.Page-1), m.reqSeq)
		}
	case "right":
		if m.products.Page < m.products.TotalPages {
			m.busy = true
			m.reqSeq++
			return m, listProductsCmd(m.flow, m.listParams(m.products.Page+1), m.reqSeq)
		}
	case "+":
		m.draftOp(func(id string) error { return m.wiz.Draft().Increment(id) })
	case "-":
		m.draftOp(func(id string) error { return m.wiz.Draft().Decrement(id) })
	case "x":
		if id, ok := m.selectedDraftID(); ok {
			m.wiz.Draft().Remove(id)
			if m.draftIdx >= m.wiz.Draft().Len() && m.draftIdx > 0 {
				m.draftIdx--
			}
		}
	default:
		// Digits set an exact quantity on the focused draft line.
		if m.focus == focusDraft && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			qty, _ := strconv.Atoi(key)
			m.draftOp(func(id string) error { return m.wiz.Draft().SetQuantity(id, qty) })
		}
	}
	m.drainToasts()
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	if m.focus == focusCatalog {
		next := m.productIdx + delta
		if next >= 0 && next < len(m.products.Items) {
			m.productIdx = next
		}
		return
	}
	next := m.draftIdx + delta
	if next >= 0 && next < m.wiz.Draft().Len() {
		m.draftIdx = next
	}
}

func (m *Model) selectedDraftID() (string, bool) {
	items := m.wiz.Draft().Items()
	if m.draftIdx >= len(items) {
		return "", false
	}
	return items[m.draftIdx].ItemID, true
}

func (m *Model) draftOp(op func(id string) error) {
	id, ok := m.selectedDraftID()
	if !ok {
		return
	}
	if err := op(id); err != nil {
		m.toasts = append(m.toasts, notify.Entry{Level: notify.LevelWarn, Message: err.Error()})
	}
}

func (m Model) updatePicker(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q":
		m.pickerOpen = false
		m.pickerView = nil
	case "up":
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
	case "down":
		if m.pickerView != nil && m.pickerIdx < len(m.pickerView.Variants)-1 {
			m.pickerIdx++
		}
	case "enter":
		if m.pickerView == nil || m.pickerIdx >= len(m.pickerView.Variants) {
			break
		}
		pv := m.pickerView.Variants[m.pickerIdx]
		if pv.AlreadySelected {
			m.toasts = append(m.toasts, notify.Entry{Level: notify.LevelWarn, Message: "variant already in the draft"})
			break
		}
		if _, err := m.flow.Pick(m.pickerView, pv.ID); err != nil {
			m.toasts = append(m.toasts, notify.Entry{Level: notify.LevelWarn, Message: err.Error()})
		} else {
			m.status = fmt.Sprintf("Added %s / %s", pv.Color.Name, pv.Size.Name)
		}
		m.pickerOpen = false
		m.pickerView = nil
	}
	m.drainToasts()
	return m, nil
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.shippingEdit {
		switch key {
		case "enter", "esc":
			if cost, err := parseShipping(m.shippingBuf); err == nil {
				m.wiz.Draft().SetShippingCost(cost)
			} else {
				m.toasts = append(m.toasts, notify.Entry{Level: notify.LevelWarn, Message: "invalid shipping cost"})
			}
			m.shippingEdit = false
		case "backspace":
			if m.shippingBuf != "" {
				m.shippingBuf = m.shippingBuf[:len(m.shippingBuf)-1]
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.shippingBuf += string(msg.Runes)
			}
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "b":
		m.wiz.Back()
	case "s":
		m.shippingEdit = true
		m.shippingBuf = m.wiz.Draft().ShippingCost().String()
	case "enter":
		m.busy = true
		m.status = "Submitting..."
		return m, submitCmd(m.wiz)
	}
	m.drainToasts()
	return m, nil
}
