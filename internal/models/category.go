package models

// Category represents a storefront category.
type Category struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
	Banner string `json:"banner,omitempty"`
	Show   *bool  `json:"show,omitempty"`
}

// Visible reports whether the category appears in home-page sections.
// A missing show flag means visible. Hidden categories only affect the
// home grouping; their products still show up under "All Products".
func (c Category) Visible() bool {
	return c.Show == nil || *c.Show
}
