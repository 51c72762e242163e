package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stylesphere/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data        map[string][]byte
	getError    error
	setError    error
	getCalls    int
	setCalls    int
	deleteCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deleteCalls++
	delete(m.data, key)
	return nil
}

// MockVisionModel is a mock implementation of domain.VisionModel
type MockVisionModel struct {
	answer  string
	err     error
	prompts []string
	images  [][]domain.Image
}

func (m *MockVisionModel) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.images = append(m.images, images)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// MockAnalysisRepository is an in-memory domain.AnalysisRepository
type MockAnalysisRepository struct {
	mu       sync.Mutex
	colors   []domain.ColorAnalysis
	items    []domain.WardrobeItem
	dnas     []domain.StyleDNA
	saveErr  error
	nextID   int
	loadErrs map[string]error
}

func NewMockAnalysisRepository() *MockAnalysisRepository {
	return &MockAnalysisRepository{loadErrs: make(map[string]error)}
}

func (m *MockAnalysisRepository) id() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *MockAnalysisRepository) SaveColorAnalysis(ctx context.Context, a *domain.ColorAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	a.ID, a.CreatedAt = m.id(), time.Now()
	m.colors = append(m.colors, *a)
	return nil
}

func (m *MockAnalysisRepository) LatestColorAnalysis(ctx context.Context, userID string) (*domain.ColorAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErrs["color"]; err != nil {
		return nil, err
	}
	for i := len(m.colors) - 1; i >= 0; i-- {
		if m.colors[i].UserID == userID {
			c := m.colors[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAnalysisRepository) SaveWardrobeItem(ctx context.Context, item *domain.WardrobeItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	item.ID, item.CreatedAt = m.id(), time.Now()
	m.items = append(m.items, *item)
	return nil
}

func (m *MockAnalysisRepository) ListWardrobeItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErrs["items"]; err != nil {
		return nil, err
	}
	var out []domain.WardrobeItem
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MockAnalysisRepository) CountWardrobeItems(ctx context.Context, userID string) (int, error) {
	items, err := m.ListWardrobeItems(ctx, userID)
	return len(items), err
}

func (m *MockAnalysisRepository) SaveStyleDNA(ctx context.Context, dna *domain.StyleDNA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	dna.ID, dna.CreatedAt = m.id(), time.Now()
	m.dnas = append(m.dnas, *dna)
	return nil
}

func (m *MockAnalysisRepository) LatestStyleDNA(ctx context.Context, userID string) (*domain.StyleDNA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErrs["dna"]; err != nil {
		return nil, err
	}
	for i := len(m.dnas) - 1; i >= 0; i-- {
		if m.dnas[i].UserID == userID {
			d := m.dnas[i]
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockCatalog is a mock implementation of domain.CatalogSource
type MockCatalog struct {
	products []domain.Product
	err      error
	intents  []*domain.ShoppingIntent
}

func (m *MockCatalog) FetchProducts(ctx context.Context, intent *domain.ShoppingIntent) ([]domain.Product, error) {
	m.intents = append(m.intents, intent)
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// MockProfileProvider is a mock implementation of domain.ProfileProvider
type MockProfileProvider struct {
	profile *domain.UserProfile
	err     error
	calls   []string
}

func (m *MockProfileProvider) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	m.calls = append(m.calls, userID)
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}
