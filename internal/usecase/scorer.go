package usecase

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stylesphere/backend/internal/domain"
)

// Score weights. The point values are part of the public ranking contract.
const (
	flatteringColorPoints = 30.0
	avoidedColorPenalty   = 20.0
	styleTagPoints        = 10.0
	inBudgetPoints        = 20.0
	overBudgetDivisor     = 100.0 // one point lost per 100 currency units over budget

	minScore = 0.0
	maxScore = 100.0
)

// ColorRule records which color rule fired for a product.
type ColorRule int

const (
	ColorNeutral ColorRule = iota
	ColorFlattering
	ColorAvoided
)

// ScoreBreakdown is the per-factor result of scoring one product.
type ScoreBreakdown struct {
	ColorRule    ColorRule
	ColorPoints  float64
	MatchedTags  []string
	TagPoints    float64
	InBudget     bool
	Overage      float64
	BudgetPoints float64
	Raw          float64 // sum before clamping
	Score        float64 // clamped to [0, 100]
}

// Scorer computes relevance scores of products for a user profile and shopping intent.
// It is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the clamped relevance score of product.
func (s *Scorer) Score(profile *domain.UserProfile, product *domain.Product, intent *domain.ShoppingIntent) (float64, error) {
	b, err := s.Evaluate(profile, product, intent)
	if err != nil {
		return 0, err
	}
	return b.Score, nil
}

// Evaluate scores product and returns the contribution of every factor.
//
// Color: +30 when the color is flattering, otherwise -20 when it is to be avoided.
// The flattering check runs first, so a color listed in both sets counts as flattering.
// Style: +10 per distinct profile tag also carried by the product.
// Budget: +20 at or under budget, else -(price-budget)/100.
// Formality: no contribution.
func (s *Scorer) Evaluate(profile *domain.UserProfile, product *domain.Product, intent *domain.ShoppingIntent) (*ScoreBreakdown, error) {
	if err := validateScoringInputs(profile, intent); err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	b := &ScoreBreakdown{}

	switch {
	case contains(profile.FlatteringColors, product.Color):
		b.ColorRule = ColorFlattering
		b.ColorPoints = flatteringColorPoints
	case contains(profile.ColorsToAvoid, product.Color):
		b.ColorRule = ColorAvoided
		b.ColorPoints = -avoidedColorPenalty
	}

	b.MatchedTags = commonTags(profile.StyleDNA.TopStyleTags, product.StyleTags)
	b.TagPoints = styleTagPoints * float64(len(b.MatchedTags))

	price := *product.Price
	if price <= intent.Budget {
		b.InBudget = true
		b.BudgetPoints = inBudgetPoints
	} else {
		b.Overage = price - intent.Budget
		b.BudgetPoints = -b.Overage / overBudgetDivisor
	}

	// TODO: add a formality factor comparing StyleDNA.FormalityRange with
	// product.FormalityLevel once the product owner defines the formula.

	b.Raw = b.ColorPoints + b.TagPoints + b.BudgetPoints
	b.Score = clamp(b.Raw, minScore, maxScore)
	return b, nil
}

// Explain describes a breakdown in one sentence. It only restates facts that
// went into the score.
func Explain(b *ScoreBreakdown, product *domain.Product, intent *domain.ShoppingIntent) string {
	var parts []string

	switch b.ColorRule {
	case ColorFlattering:
		parts = append(parts, product.Color+" is one of your flattering colors")
	case ColorAvoided:
		parts = append(parts, product.Color+" is a color you usually avoid")
	}

	switch n := len(b.MatchedTags); n {
	case 0:
		parts = append(parts, "no overlap with your top style tags")
	case 1:
		parts = append(parts, "matches your "+b.MatchedTags[0]+" style")
	default:
		parts = append(parts, "matches "+strconv.Itoa(n)+" of your style tags ("+strings.Join(b.MatchedTags, ", ")+")")
	}

	if b.InBudget {
		parts = append(parts, "within your budget of "+formatAmount(intent.Budget))
	} else {
		parts = append(parts, formatAmount(b.Overage)+" over your budget of "+formatAmount(intent.Budget))
	}

	sentence := strings.Join(parts, "; ")
	first, size := utf8.DecodeRuneInString(sentence)
	return string(unicode.ToUpper(first)) + sentence[size:] + "."
}

func validateScoringInputs(profile *domain.UserProfile, intent *domain.ShoppingIntent) error {
	if profile == nil {
		return domain.NewValidationError("profile", "is required")
	}
	return validateIntent(intent)
}

func validateIntent(intent *domain.ShoppingIntent) error {
	if intent == nil {
		return domain.NewValidationError("shopping_intent", "is required")
	}
	if math.IsNaN(intent.Budget) || math.IsInf(intent.Budget, 0) {
		return domain.NewValidationError("budget", "must be a finite number")
	}
	if intent.Budget < 0 {
		return domain.NewValidationError("budget", "must be >= 0")
	}
	return nil
}

func validateProduct(product *domain.Product) error {
	if product == nil {
		return domain.NewValidationError("product", "is required")
	}
	if err := checkStruct(product); err != nil {
		return err
	}
	if math.IsNaN(*product.Price) || math.IsInf(*product.Price, 0) {
		return domain.NewValidationError("price", "must be a finite number")
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// commonTags returns the distinct profile tags present on the product, in profile order.
func commonTags(profileTags, productTags []string) []string {
	have := make(map[string]struct{}, len(productTags))
	for _, t := range productTags {
		have[t] = struct{}{}
	}

	var matched []string
	seen := make(map[string]struct{}, len(profileTags))
	for _, t := range profileTags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := have[t]; ok {
			matched = append(matched, t)
		}
	}
	return matched
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
