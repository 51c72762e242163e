package domain

import "time"

// Image is an uploaded photo forwarded to the vision model.
type Image struct {
	MimeType string
	Data     []byte
}

// ColorAnalysis is the seasonal color palette inferred from user photos.
type ColorAnalysis struct {
	ID               string    `json:"id,omitempty"`
	UserID           string    `json:"user_id,omitempty"`
	Season           string    `json:"season" validate:"required"`
	ConfidenceScore  float64   `json:"confidence_score" validate:"gte=0,lte=1"`
	FlatteringColors []string  `json:"flattering_colors" validate:"required"`
	ColorsToAvoid    []string  `json:"colors_to_avoid" validate:"required"`
	Undertone        string    `json:"undertone" validate:"required"`
	Reasoning        string    `json:"reasoning" validate:"required"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// WardrobeItem is one clothing item tagged by the vision model.
type WardrobeItem struct {
	ID              string    `json:"id,omitempty"`
	UserID          string    `json:"user_id,omitempty"`
	Category        string    `json:"category" validate:"required"`
	Subcategory     string    `json:"subcategory" validate:"required"`
	PrimaryColor    string    `json:"primary_color" validate:"required"`
	SecondaryColors []string  `json:"secondary_colors"`
	Pattern         string    `json:"pattern" validate:"required"`
	Fit             string    `json:"fit" validate:"required"`
	FormalityLevel  int       `json:"formality_level" validate:"min=1,max=10"`
	Seasonality     []string  `json:"seasonality" validate:"required"`
	StyleTags       []string  `json:"style_tags" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// StyleDNA is the aggregated aesthetic profile synthesized from a wardrobe.
type StyleDNA struct {
	ID                 string    `json:"id,omitempty"`
	UserID             string    `json:"user_id,omitempty"`
	DominantAesthetics []string  `json:"dominant_aesthetics" validate:"required"`
	PreferredFit       string    `json:"preferred_fit" validate:"required"`
	ColorPreferences   []string  `json:"color_preferences" validate:"required"`
	PatternAffinity    string    `json:"pattern_affinity" validate:"required"`
	FormalityRange     string    `json:"formality_range" validate:"required"`
	RiskTakingScore    int       `json:"risk_taking_score" validate:"min=1,max=10"`
	MissingCategories  []string  `json:"missing_categories" validate:"required"`
	StyleSummary       string    `json:"style_summary" validate:"required"`
	TopStyleTags       []string  `json:"top_style_tags" validate:"required"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}

// ProfileView is everything stored about a user, as returned by the profile endpoint.
type ProfileView struct {
	ColorAnalysis *ColorAnalysis `json:"color_analysis"`
	WardrobeCount int            `json:"wardrobe_count"`
	StyleDNA      *StyleDNA      `json:"style_dna"`
}

// UserProfile is the read-only view of a user that the scorer consumes.
type UserProfile struct {
	FlatteringColors []string         `json:"flattering_colors"`
	ColorsToAvoid    []string         `json:"colors_to_avoid"`
	StyleDNA         UserStyleSummary `json:"style_dna"`
}

// UserStyleSummary holds the style DNA fields relevant to scoring.
type UserStyleSummary struct {
	TopStyleTags   []string `json:"top_style_tags"`
	FormalityRange string   `json:"formality_range"`
}
