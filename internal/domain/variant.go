package domain

type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type Size struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RangeMin int    `json:"rangeMin,omitempty"`
	RangeMax int    `json:"rangeMax,omitempty"`
}

// Variant is one selectable color+size combination of a product, bounded by
// the stock currently available. Fetched read-only from the catalog; never
// mutated locally.
type Variant struct {
	ID                string `json:"id"`
	ProductID         string `json:"productId"`
	Color             Color  `json:"color"`
	Size              Size   `json:"size"`
	AvailableQuantity int    `json:"availableQuantity"`
}
