package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/infrastructure/gemini"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/metrics"
)

const (
	minColorPhotos = 2
	maxColorPhotos = 5

	defaultProfileCacheTTL = 10 * time.Minute
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	ProfileCacheTTL time.Duration
}

// AnalysisService forwards photos to the vision model and persists its answers.
// It also serves the scorer's view of a user (domain.ProfileProvider).
type AnalysisService struct {
	model    domain.VisionModel
	repo     domain.AnalysisRepository
	cache    domain.CacheRepository
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	model domain.VisionModel,
	repo domain.AnalysisRepository,
	cache domain.CacheRepository,
	config AnalysisServiceConfig,
) *AnalysisService {
	ttl := config.ProfileCacheTTL
	if ttl <= 0 {
		ttl = defaultProfileCacheTTL
	}
	return &AnalysisService{
		model:    model,
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		log:      logging.Component("analysis"),
	}
}

// AnalyzeColors determines the user's seasonal palette from 2 to 5 photos.
func (s *AnalysisService) AnalyzeColors(ctx context.Context, userID string, images []domain.Image) (*domain.ColorAnalysis, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if len(images) < minColorPhotos || len(images) > maxColorPhotos {
		return nil, domain.NewValidationError("files",
			fmt.Sprintf("please upload between %d and %d photos", minColorPhotos, maxColorPhotos))
	}
	if err := checkImages(images); err != nil {
		return nil, err
	}

	var analysis domain.ColorAnalysis
	if err := s.ask(ctx, colorAnalysisPrompt, images, &analysis); err != nil {
		return nil, err
	}

	analysis.ID, analysis.UserID, analysis.CreatedAt = "", userID, time.Time{}
	if err := s.repo.SaveColorAnalysis(ctx, &analysis); err != nil {
		return nil, fmt.Errorf("saving color analysis: %w", err)
	}
	s.invalidateProfile(ctx, userID)

	s.log.Info().Str("user_id", userID).Str("season", analysis.Season).
		Float64("confidence", analysis.ConfidenceScore).Msg("Color analysis stored")
	return &analysis, nil
}

// AnalyzeWardrobeItem tags a single clothing photo. categoryHint is optional.
func (s *AnalysisService) AnalyzeWardrobeItem(ctx context.Context, userID, categoryHint string, image domain.Image) (*domain.WardrobeItem, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if err := checkImages([]domain.Image{image}); err != nil {
		return nil, err
	}

	var item domain.WardrobeItem
	if err := s.ask(ctx, wardrobeItemPrompt(categoryHint), []domain.Image{image}, &item); err != nil {
		return nil, err
	}
	if item.SecondaryColors == nil {
		item.SecondaryColors = []string{}
	}

	item.ID, item.UserID, item.CreatedAt = "", userID, time.Time{}
	if err := s.repo.SaveWardrobeItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("saving wardrobe item: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("item_id", item.ID).Str("category", item.Category).
		Msg("Wardrobe item stored")
	return &item, nil
}

// wardrobeSummary is the slice of a wardrobe item the style DNA prompt sees.
type wardrobeSummary struct {
	Category       string   `json:"category"`
	Subcategory    string   `json:"subcategory"`
	PrimaryColor   string   `json:"primary_color"`
	Pattern        string   `json:"pattern"`
	Fit            string   `json:"fit"`
	FormalityLevel int      `json:"formality_level"`
	StyleTags      []string `json:"style_tags"`
}

// GenerateStyleDNA synthesizes a style profile from the user's wardrobe.
// When itemIDs is non-empty only those items are considered.
func (s *AnalysisService) GenerateStyleDNA(ctx context.Context, userID string, itemIDs []string) (*domain.StyleDNA, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	items, err := s.repo.ListWardrobeItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading wardrobe: %w", err)
	}
	items = filterItems(items, itemIDs)
	if len(items) == 0 {
		return nil, domain.ErrNoWardrobeItems
	}

	summary := make([]wardrobeSummary, len(items))
	for i, it := range items {
		summary[i] = wardrobeSummary{
			Category:       it.Category,
			Subcategory:    it.Subcategory,
			PrimaryColor:   it.PrimaryColor,
			Pattern:        it.Pattern,
			Fit:            it.Fit,
			FormalityLevel: it.FormalityLevel,
			StyleTags:      it.StyleTags,
		}
	}
	itemsJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding wardrobe summary: %w", err)
	}

	var dna domain.StyleDNA
	if err := s.ask(ctx, styleDNAPrompt(string(itemsJSON)), nil, &dna); err != nil {
		return nil, err
	}

	dna.ID, dna.UserID, dna.CreatedAt = "", userID, time.Time{}
	if err := s.repo.SaveStyleDNA(ctx, &dna); err != nil {
		return nil, fmt.Errorf("saving style dna: %w", err)
	}
	s.invalidateProfile(ctx, userID)

	s.log.Info().Str("user_id", userID).Int("items", len(items)).Str("formality_range", dna.FormalityRange).
		Msg("Style DNA stored")
	return &dna, nil
}

// GetUserProfile returns the latest analyses and the wardrobe size of a user.
func (s *AnalysisService) GetUserProfile(ctx context.Context, userID string) (*domain.ProfileView, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	colors, err := s.repo.LatestColorAnalysis(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading color analysis: %w", err)
	}
	count, err := s.repo.CountWardrobeItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting wardrobe items: %w", err)
	}
	dna, err := s.repo.LatestStyleDNA(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading style dna: %w", err)
	}

	return &domain.ProfileView{ColorAnalysis: colors, WardrobeCount: count, StyleDNA: dna}, nil
}

// Profile returns the scorer's view of a user, from cache when fresh.
func (s *AnalysisService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	if cached, ok := s.cachedProfile(ctx, userID); ok {
		metrics.ProfileCacheHits.Inc()
		return cached, nil
	}
	metrics.ProfileCacheMisses.Inc()

	view, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if view.ColorAnalysis == nil && view.StyleDNA == nil {
		return nil, domain.ErrProfileNotFound
	}

	profile := &domain.UserProfile{
		FlatteringColors: []string{},
		ColorsToAvoid:    []string{},
		StyleDNA:         domain.UserStyleSummary{TopStyleTags: []string{}},
	}
	if view.ColorAnalysis != nil {
		profile.FlatteringColors = append(profile.FlatteringColors, view.ColorAnalysis.FlatteringColors...)
		profile.ColorsToAvoid = append(profile.ColorsToAvoid, view.ColorAnalysis.ColorsToAvoid...)
	}
	if view.StyleDNA != nil {
		profile.StyleDNA.TopStyleTags = append(profile.StyleDNA.TopStyleTags, view.StyleDNA.TopStyleTags...)
		profile.StyleDNA.FormalityRange = view.StyleDNA.FormalityRange
	}

	s.storeProfile(ctx, userID, profile)
	return profile, nil
}

// ask sends prompt and images to the model and decodes and validates the JSON answer into out.
func (s *AnalysisService) ask(ctx context.Context, prompt string, images []domain.Image, out interface{}) error {
	text, err := s.model.Generate(ctx, prompt, images)
	if err != nil {
		return err
	}
	if err := gemini.DecodeAnswer(text, out); err != nil {
		s.log.Warn().Err(err).Str("answer", text).Msg("Unparseable model answer")
		return err
	}
	if err := checkStruct(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedModelResponse, err)
	}
	return nil
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}

func (s *AnalysisService) cachedProfile(ctx context.Context, userID string) (*domain.UserProfile, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, profileCacheKey(userID))
	if err != nil {
		return nil, false
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Dropping undecodable cached profile")
		return nil, false
	}
	return &profile, true
}

func (s *AnalysisService) storeProfile(ctx context.Context, userID string, profile *domain.UserProfile) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err == nil {
		err = s.cache.Set(ctx, profileCacheKey(userID), raw, s.cacheTTL)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to cache profile")
	}
}

func (s *AnalysisService) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileCacheKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate cached profile")
	}
}

func checkImages(images []domain.Image) error {
	for _, img := range images {
		if !allowedImageTypes[img.MimeType] {
			return domain.NewValidationError("files", fmt.Sprintf("invalid file type: %s", img.MimeType))
		}
		if len(img.Data) == 0 {
			return domain.NewValidationError("files", "empty image")
		}
	}
	return nil
}

func filterItems(items []domain.WardrobeItem, ids []string) []domain.WardrobeItem {
	if len(ids) == 0 {
		return items
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.WardrobeItem
	for _, it := range items {
		if want[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
