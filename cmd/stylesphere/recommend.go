package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/infrastructure/catalog"
	"github.com/stylesphere/backend/internal/usecase"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog products for a profile file",
	Long: `Rank the built-in catalog against a user profile read from a JSON file and
print the recommendations as JSON. No model or database is needed.

Examples:
  stylesphere recommend --profile me.json --category dress --budget 2000 --store myntra
  stylesphere recommend --profile me.json --budget 1500 --store myntra --store amazon --top 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")
		top, _ := cmd.Flags().GetInt("top")

		intent := &domain.ShoppingIntent{}
		intent.Category, _ = cmd.Flags().GetString("category")
		intent.Occasion, _ = cmd.Flags().GetString("occasion")
		intent.Budget, _ = cmd.Flags().GetFloat64("budget")
		intent.Stores, _ = cmd.Flags().GetStringSlice("store")
		intent.ColorPreference, _ = cmd.Flags().GetString("color")

		profile, err := readProfile(profilePath)
		if err != nil {
			return err
		}
		return recommend(cmd.Context(), cmd.OutOrStdout(), profile, intent, top)
	},
}

func init() {
	f := recommendCmd.Flags()
	f.String("profile", "", "path to a user profile JSON file")
	f.String("category", "", "product category, e.g. dress")
	f.String("occasion", "", "occasion, e.g. wedding")
	f.Float64("budget", 0, "budget ceiling")
	f.StringSlice("store", nil, "store to query; repeatable, default all")
	f.String("color", "", "preferred color")
	f.Int("top", 10, "maximum number of results")
	_ = recommendCmd.MarkFlagRequired("profile")
	_ = recommendCmd.MarkFlagRequired("budget")
}

func readProfile(path string) (*domain.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &profile, nil
}

func recommend(ctx context.Context, out io.Writer, profile *domain.UserProfile, intent *domain.ShoppingIntent, top int) error {
	svc := usecase.NewRecommendationService(
		nil,
		catalog.NewMockCatalog(0),
		usecase.NewRanker(usecase.NewScorer(), usecase.RankerConfig{TopN: top}),
	)
	ranked, err := svc.RecommendForProfile(ctx, profile, intent)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]interface{}{"recommendations": ranked}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
