package models

// Category is a user category as exposed by the core service.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Prediction is the categorization suggested for one description.
// A nil CategoryID means the predictor had no suggestion.
type Prediction struct {
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// HasCategory reports whether the prediction carries a category.
func (p Prediction) HasCategory() bool {
	return p.CategoryID != nil && *p.CategoryID != ""
}
