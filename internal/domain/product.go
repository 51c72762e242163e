package domain

// Product is a single listing returned by a catalog source.
// Price is a pointer so that an absent price can be told apart from a free item.
type Product struct {
	Store          string   `json:"store"`
	ProductID      string   `json:"product_id"`
	Title          string   `json:"title,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	ImageURL       string   `json:"image_url,omitempty"`
	ProductURL     string   `json:"product_url,omitempty"`
	Category       string   `json:"category"`
	Color          string   `json:"color" validate:"required"`
	StyleTags      []string `json:"style_tags" validate:"required"`
	FormalityLevel int      `json:"formality_level" validate:"omitempty,min=1,max=10"`
	Seasonality    []string `json:"seasonality"`
}

// ShoppingIntent describes what the user is shopping for in one request.
type ShoppingIntent struct {
	Category        string   `json:"category"`
	Occasion        string   `json:"occasion"`
	Budget          float64  `json:"budget"`
	Stores          []string `json:"stores"`
	ColorPreference string   `json:"color_preference,omitempty"`
}

// ScoredProduct is a product with its relevance score and the explanation behind it.
type ScoredProduct struct {
	Product
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

// Float64 returns a pointer to v, for building products in code.
func Float64(v float64) *float64 {
	return &v
}
