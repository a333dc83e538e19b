package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/wizard"
)

func parseShipping(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func (m Model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "shop-backoffice - order entry")
	fmt.Fprintln(b, "")

	if m.loadErr != "" {
		fmt.Fprintf(b, "Could not load order: %s\n", m.loadErr)
		fmt.Fprintln(b, "Press ctrl+c to quit")
		return b.String()
	}

	switch m.wiz.Step() {
	case wizard.StepInformation:
		m.viewInformation(b)
	case wizard.StepProduct:
		if m.pickerOpen {
			m.viewPicker(b)
		} else {
			m.viewProduct(b)
		}
	case wizard.StepPreview:
		m.viewPreview(b)
	case wizard.StepSubmitted:
		fmt.Fprintln(b, "Order saved. Press any key to exit.")
	}

	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Status: %s\n", m.status)
	for _, toast := range m.toasts {
		fmt.Fprintf(b, " [%s] %s\n", toast.Level, toast.Message)
	}
	return b.String()
}

func (m Model) viewInformation(b *strings.Builder) {
	fmt.Fprintln(b, "Step 1/3 - customer information")
	for i, f := range m.fields {
		marker := " "
		if i == m.fieldIdx {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-15s %s\n", marker, f.label+":", f.value)
	}
	fmt.Fprintln(b, "\nControls: up/down field, type to edit, enter to continue")
}

func (m Model) viewProduct(b *strings.Builder) {
	fmt.Fprintln(b, "Step 2/3 - products")
	if m.searching {
		fmt.Fprintf(b, "Search: %s_\n", m.search)
	} else if m.search != "" {
		fmt.Fprintf(b, "Search: %s\n", m.search)
	}

	fmt.Fprintf(b, "\nCatalog (page %d/%d)%s\n", m.products.Page, max(m.products.TotalPages, 1), focusTag(m.focus == focusCatalog))
	if len(m.products.Items) == 0 {
		fmt.Fprintln(b, "  (no products)")
	}
	for i, p := range m.products.Items {
		marker := " "
		if i == m.productIdx && m.focus == focusCatalog {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-30s %8s\n", marker, p.Name, p.UnitPrice.StringFixed(2))
	}

	fmt.Fprintf(b, "\nDraft%s\n", focusTag(m.focus == focusDraft))
	m.viewDraftLines(b, m.focus == focusDraft)
	m.viewTotals(b)
	fmt.Fprintln(b, "\nControls: tab focus, up/down select, left/right page, / search, enter pick, +/-/x/digit edit draft, b back, n continue, q quit")
}

func focusTag(focused bool) string {
	if focused {
		return " *"
	}
	return ""
}

func (m Model) viewDraftLines(b *strings.Builder, focused bool) {
	items := m.wiz.Draft().Items()
	if len(items) == 0 {
		fmt.Fprintln(b, "  (empty)")
		return
	}
	for i, li := range items {
		marker := " "
		if focused && i == m.draftIdx {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-24s %s/%s  x%d (max %d)  %8s\n",
			marker, li.Product.Name, li.Color.Name, li.Size.Name, li.Quantity, li.LimitedQuantity, li.LineTotal.StringFixed(2))
	}
}

func (m Model) viewTotals(b *strings.Builder) {
	d := m.wiz.Draft()
	fmt.Fprintf(b, "  Products: %s  Shipping: %s  Total: %s\n",
		d.Subtotal().StringFixed(2), d.ShippingCost().StringFixed(2), d.GrandTotal().StringFixed(2))
}

func (m Model) viewPicker(b *strings.Builder) {
	fmt.Fprintf(b, "Variants - %s\n", m.pickerView.Product.Name)
	for i, pv := range m.pickerView.Variants {
		marker := " "
		if i == m.pickerIdx {
			marker = ">"
		}
		state := fmt.Sprintf("%d in stock", pv.AvailableQuantity)
		if pv.AlreadySelected {
			state = "already in draft"
		} else if pv.AvailableQuantity == 0 {
			state = "out of stock"
		}
		fmt.Fprintf(b, " %s %s / %s - %s\n", marker, pv.Color.Name, pv.Size.Name, state)
	}
	fmt.Fprintln(b, "\nControls: up/down select, enter pick, esc close")
}

func (m Model) viewPreview(b *strings.Builder) {
	fmt.Fprintln(b, "Step 3/3 - preview")
	c := m.wiz.Customer()
	fmt.Fprintf(b, " Customer: %s %s, %s\n", c.FirstName, c.LastName, c.Phone)
	fmt.Fprintf(b, " Address:  %s\n", c.Address)
	fmt.Fprintf(b, " Payment:  %s   Status: %s\n", c.PaymentMethod, c.Status)
	fmt.Fprintln(b, "")
	m.viewDraftLines(b, false)
	m.viewTotals(b)
	if m.shippingEdit {
		fmt.Fprintf(b, " Shipping cost: %s_\n", m.shippingBuf)
	}
	fmt.Fprintln(b, "\nControls: s shipping cost, enter submit, b back, q quit")
}
