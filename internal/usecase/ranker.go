package usecase

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopN    = 10
	defaultWorkers = 4
)

// RankerConfig holds configuration for the ranker
type RankerConfig struct {
	TopN    int // maximum products returned
	Workers int // concurrent scorings
}

// Ranker scores candidate products and keeps the best ones.
type Ranker struct {
	scorer  *Scorer
	topN    int
	workers int
	log     zerolog.Logger
}

// NewRanker creates a ranker; zero config values fall back to 10 results and 4 workers.
func NewRanker(scorer *Scorer, config RankerConfig) *Ranker {
	if scorer == nil {
		scorer = NewScorer()
	}
	topN := config.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	workers := config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Ranker{
		scorer:  scorer,
		topN:    topN,
		workers: workers,
		log:     logging.Component("ranker"),
	}
}

type rankSlot struct {
	scored domain.ScoredProduct
	err    error
}

// Rank scores every product, drops the ones that fail validation, and returns
// at most TopN products ordered by descending relevance score. Products with
// equal scores keep their input order.
//
// An invalid profile or intent fails the whole call since no product could be scored.
func (r *Ranker) Rank(profile *domain.UserProfile, intent *domain.ShoppingIntent, products []domain.Product) ([]domain.ScoredProduct, error) {
	if err := validateScoringInputs(profile, intent); err != nil {
		return nil, err
	}

	slots := make([]rankSlot, len(products))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range products {
		i := i
		g.Go(func() error {
			product := &products[i]
			b, err := r.scorer.Evaluate(profile, product, intent)
			if err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].scored = domain.ScoredProduct{
				Product:        cloneProduct(product),
				RelevanceScore: b.Score,
				Reason:         Explain(b, product, intent),
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail; per-product errors live in slots

	ranked := make([]domain.ScoredProduct, 0, len(products))
	for i, slot := range slots {
		if slot.err != nil {
			r.logSkipped(&products[i], slot.err)
			continue
		}
		ranked = append(ranked, slot.scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}
	return ranked, nil
}

func (r *Ranker) logSkipped(p *domain.Product, err error) {
	field := "unknown"
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		field = verr.Field
	}
	metrics.ProductsSkipped.WithLabelValues(field).Inc()
	r.log.Warn().Err(err).Str("store", p.Store).Str("product_id", p.ProductID).Msg("Skipping malformed product")
}

// cloneProduct copies p so ranked results never alias catalog data.
func cloneProduct(p *domain.Product) domain.Product {
	c := *p
	if p.Price != nil {
		c.Price = domain.Float64(*p.Price)
	}
	c.StyleTags = append([]string{}, p.StyleTags...)
	if p.Seasonality != nil {
		c.Seasonality = append([]string{}, p.Seasonality...)
	}
	return c
}
