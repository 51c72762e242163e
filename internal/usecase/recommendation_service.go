package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/metrics"
)

// RecommendationService resolves a profile, fetches candidates and ranks them.
type RecommendationService struct {
	profiles domain.ProfileProvider
	catalog  domain.CatalogSource
	ranker   *Ranker
	log      zerolog.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(profiles domain.ProfileProvider, catalog domain.CatalogSource, ranker *Ranker) *RecommendationService {
	if ranker == nil {
		ranker = NewRanker(nil, RankerConfig{})
	}
	return &RecommendationService{
		profiles: profiles,
		catalog:  catalog,
		ranker:   ranker,
		log:      logging.Component("recommendation"),
	}
}

// Recommend ranks catalog products for a stored user.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, intent *domain.ShoppingIntent) ([]domain.ScoredProduct, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if err := validateIntent(intent); err != nil {
		return nil, err
	}
	if s.profiles == nil {
		return nil, &domain.UpstreamError{Op: "get user profile", Err: errors.New("no profile provider configured")}
	}

	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "get user profile", Err: err}
	}
	return s.RecommendForProfile(ctx, profile, intent)
}

// RecommendForProfile ranks catalog products for a caller-supplied profile.
func (s *RecommendationService) RecommendForProfile(ctx context.Context, profile *domain.UserProfile, intent *domain.ShoppingIntent) ([]domain.ScoredProduct, error) {
	if err := validateScoringInputs(profile, intent); err != nil {
		return nil, err
	}

	products, err := s.catalog.FetchProducts(ctx, intent)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "fetch products", Err: err}
	}

	ranked, err := s.ranker.Rank(profile, intent, products)
	if err != nil {
		return nil, err
	}

	metrics.RecommendationsServed.Add(float64(len(ranked)))
	s.log.Debug().
		Int("candidates", len(products)).
		Int("returned", len(ranked)).
		Str("category", intent.Category).
		Msg("Recommendations ranked")
	return ranked, nil
}
