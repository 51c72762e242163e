package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stylesphere/backend/internal/domain"
)

// SaveColorAnalysis inserts a color analysis, assigning ID and CreatedAt when unset.
func (s *Store) SaveColorAnalysis(ctx context.Context, a *domain.ColorAnalysis) error {
	stamp(&a.ID, &a.CreatedAt)

	flattering, err := encodeList(a.FlatteringColors)
	if err != nil {
		return err
	}
	avoid, err := encodeList(a.ColorsToAvoid)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO color_analysis (id, user_id, season, confidence_score, flattering_colors,
			colors_to_avoid, undertone, reasoning, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Season, a.ConfidenceScore, flattering, avoid, a.Undertone, a.Reasoning,
		a.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting color analysis: %w", err)
	}
	return nil
}

// LatestColorAnalysis returns the most recent color analysis for userID.
func (s *Store) LatestColorAnalysis(ctx context.Context, userID string) (*domain.ColorAnalysis, error) {
	var (
		a                 domain.ColorAnalysis
		flattering, avoid string
		created           int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, season, confidence_score, flattering_colors, colors_to_avoid,
			undertone, reasoning, created_at
		FROM color_analysis WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, userID,
	).Scan(&a.ID, &a.UserID, &a.Season, &a.ConfidenceScore, &flattering, &avoid,
		&a.Undertone, &a.Reasoning, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying color analysis: %w", err)
	}

	if a.FlatteringColors, err = decodeList(flattering); err != nil {
		return nil, err
	}
	if a.ColorsToAvoid, err = decodeList(avoid); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	return &a, nil
}

// SaveWardrobeItem inserts a wardrobe item, assigning ID and CreatedAt when unset.
func (s *Store) SaveWardrobeItem(ctx context.Context, item *domain.WardrobeItem) error {
	stamp(&item.ID, &item.CreatedAt)

	secondary, err := encodeList(item.SecondaryColors)
	if err != nil {
		return err
	}
	seasons, err := encodeList(item.Seasonality)
	if err != nil {
		return err
	}
	tags, err := encodeList(item.StyleTags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO wardrobe_items (id, user_id, category, subcategory, primary_color,
			secondary_colors, pattern, fit, formality_level, seasonality, style_tags,
			description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Category, item.Subcategory, item.PrimaryColor, secondary,
		item.Pattern, item.Fit, item.FormalityLevel, seasons, tags, item.Description,
		item.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting wardrobe item: %w", err)
	}
	return nil
}

// ListWardrobeItems returns all wardrobe items of userID, oldest first.
func (s *Store) ListWardrobeItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, subcategory, primary_color, secondary_colors, pattern,
			fit, formality_level, seasonality, style_tags, description, created_at
		FROM wardrobe_items WHERE user_id = ?
		ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying wardrobe items: %w", err)
	}
	defer rows.Close()

	var items []domain.WardrobeItem
	for rows.Next() {
		var (
			item                     domain.WardrobeItem
			secondary, seasons, tags string
			created                  int64
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Category, &item.Subcategory,
			&item.PrimaryColor, &secondary, &item.Pattern, &item.Fit, &item.FormalityLevel,
			&seasons, &tags, &item.Description, &created); err != nil {
			return nil, fmt.Errorf("scanning wardrobe item: %w", err)
		}
		if item.SecondaryColors, err = decodeList(secondary); err != nil {
			return nil, err
		}
		if item.Seasonality, err = decodeList(seasons); err != nil {
			return nil, err
		}
		if item.StyleTags, err = decodeList(tags); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(0, created).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountWardrobeItems returns how many wardrobe items userID has.
func (s *Store) CountWardrobeItems(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wardrobe_items WHERE user_id = ?", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting wardrobe items: %w", err)
	}
	return n, nil
}

// SaveStyleDNA inserts a style DNA record, assigning ID and CreatedAt when unset.
func (s *Store) SaveStyleDNA(ctx context.Context, dna *domain.StyleDNA) error {
	stamp(&dna.ID, &dna.CreatedAt)

	lists := make([]string, 4)
	for i, l := range [][]string{dna.DominantAesthetics, dna.ColorPreferences, dna.MissingCategories, dna.TopStyleTags} {
		encoded, err := encodeList(l)
		if err != nil {
			return err
		}
		lists[i] = encoded
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO style_dna (id, user_id, dominant_aesthetics, preferred_fit, color_preferences,
			pattern_affinity, formality_range, risk_taking_score, missing_categories,
			style_summary, top_style_tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dna.ID, dna.UserID, lists[0], dna.PreferredFit, lists[1], dna.PatternAffinity,
		dna.FormalityRange, dna.RiskTakingScore, lists[2], dna.StyleSummary, lists[3],
		dna.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting style dna: %w", err)
	}
	return nil
}

// LatestStyleDNA returns the most recent style DNA for userID.
func (s *Store) LatestStyleDNA(ctx context.Context, userID string) (*domain.StyleDNA, error) {
	var (
		dna                               domain.StyleDNA
		aesthetics, colors, missing, tags string
		created                           int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, dominant_aesthetics, preferred_fit, color_preferences,
			pattern_affinity, formality_range, risk_taking_score, missing_categories,
			style_summary, top_style_tags, created_at
		FROM style_dna WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, userID,
	).Scan(&dna.ID, &dna.UserID, &aesthetics, &dna.PreferredFit, &colors, &dna.PatternAffinity,
		&dna.FormalityRange, &dna.RiskTakingScore, &missing, &dna.StyleSummary, &tags, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying style dna: %w", err)
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{aesthetics, &dna.DominantAesthetics},
		{colors, &dna.ColorPreferences},
		{missing, &dna.MissingCategories},
		{tags, &dna.TopStyleTags},
	} {
		if *f.dst, err = decodeList(f.raw); err != nil {
			return nil, err
		}
	}
	dna.CreatedAt = time.Unix(0, created).UTC()
	return &dna, nil
}

func stamp(id *string, created *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = time.Now().UTC()
	}
}

// encodeList stores string slices as JSON text; nil becomes "[]".
func encodeList(l []string) (string, error) {
	if l == nil {
		l = []string{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return out, nil
}
