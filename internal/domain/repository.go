package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored as encoded bytes; callers own the encoding.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// VisionModel defines the interface for the external multimodal model
type VisionModel interface {
	Generate(ctx context.Context, prompt string, images []Image) (string, error)
}

// CatalogSource returns candidate products for a shopping intent.
type CatalogSource interface {
	FetchProducts(ctx context.Context, intent *ShoppingIntent) ([]Product, error)
}

// ProfileProvider resolves the scorer's view of a user.
type ProfileProvider interface {
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// AnalysisRepository defines persistence for model analysis results
type AnalysisRepository interface {
	SaveColorAnalysis(ctx context.Context, analysis *ColorAnalysis) error
	LatestColorAnalysis(ctx context.Context, userID string) (*ColorAnalysis, error)
	SaveWardrobeItem(ctx context.Context, item *WardrobeItem) error
	ListWardrobeItems(ctx context.Context, userID string) ([]WardrobeItem, error)
	CountWardrobeItems(ctx context.Context, userID string) (int, error)
	SaveStyleDNA(ctx context.Context, dna *StyleDNA) error
	LatestStyleDNA(ctx context.Context, userID string) (*StyleDNA, error)
}
