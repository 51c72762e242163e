package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylesphere/backend/internal/domain"
)

func TestRecommendationService_Recommend(t *testing.T) {
	ctx := context.Background()
	intent := &domain.ShoppingIntent{Category: "top", Budget: 1000, Stores: []string{"myntra"}}

	t.Run("ranks catalog products for the stored profile", func(t *testing.T) {
		profiles := &MockProfileProvider{profile: testProfile()}
		catalog := &MockCatalog{products: []domain.Product{
			testProduct("p2", "black", 1200, "casual", "minimalist"),
			testProduct("p1", "pink", 800, "casual"),
		}}
		svc := NewRecommendationService(profiles, catalog, nil)

		ranked, err := svc.Recommend(ctx, "user-1", intent)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, productIDs(ranked))
		assert.Equal(t, []string{"user-1"}, profiles.calls)
		require.Len(t, catalog.intents, 1)
		assert.Same(t, intent, catalog.intents[0])
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		svc := NewRecommendationService(&MockProfileProvider{}, &MockCatalog{}, nil)
		_, err := svc.Recommend(ctx, "", intent)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("rejects invalid intent before any lookup", func(t *testing.T) {
		profiles := &MockProfileProvider{profile: testProfile()}
		catalog := &MockCatalog{}
		svc := NewRecommendationService(profiles, catalog, nil)

		_, err := svc.Recommend(ctx, "user-1", &domain.ShoppingIntent{Budget: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Empty(t, profiles.calls)
		assert.Empty(t, catalog.intents)
	})

	t.Run("propagates profile failure as upstream error", func(t *testing.T) {
		profiles := &MockProfileProvider{err: domain.ErrProfileNotFound}
		catalog := &MockCatalog{}
		svc := NewRecommendationService(profiles, catalog, nil)

		_, err := svc.Recommend(ctx, "user-1", intent)
		require.Error(t, err)
		assert.True(t, domain.IsUpstream(err))
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
		assert.Empty(t, catalog.intents)

		var upstream *domain.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "get user profile", upstream.Op)
	})

	t.Run("propagates catalog failure as upstream error", func(t *testing.T) {
		boom := errors.New("catalog down")
		svc := NewRecommendationService(&MockProfileProvider{profile: testProfile()}, &MockCatalog{err: boom}, nil)

		_, err := svc.Recommend(ctx, "user-1", intent)
		require.Error(t, err)
		assert.True(t, domain.IsUpstream(err))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing profile provider is an upstream error", func(t *testing.T) {
		svc := NewRecommendationService(nil, &MockCatalog{}, nil)
		_, err := svc.Recommend(ctx, "user-1", intent)
		assert.True(t, domain.IsUpstream(err))
	})
}

func TestRecommendationService_RecommendForProfile(t *testing.T) {
	ctx := context.Background()
	intent := &domain.ShoppingIntent{Budget: 100}

	t.Run("uses the supplied profile", func(t *testing.T) {
		catalog := &MockCatalog{products: []domain.Product{
			testProduct("a", "blue", 10),
			testProduct("b", "pink", 10),
		}}
		svc := NewRecommendationService(nil, catalog, NewRanker(nil, RankerConfig{TopN: 1}))

		ranked, err := svc.RecommendForProfile(ctx, testProfile(), intent)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, productIDs(ranked))
	})

	t.Run("nil profile is a validation error", func(t *testing.T) {
		svc := NewRecommendationService(nil, &MockCatalog{}, nil)
		_, err := svc.RecommendForProfile(ctx, nil, intent)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("all malformed candidates yield an empty list", func(t *testing.T) {
		bad := testProduct("bad", "", 10)
		svc := NewRecommendationService(nil, &MockCatalog{products: []domain.Product{bad}}, nil)

		ranked, err := svc.RecommendForProfile(ctx, testProfile(), intent)
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})
}
