package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"folio/internal/models"

	"github.com/sirupsen/logrus"
)

// MemStore keeps everything in process memory; state is lost on restart.
type MemStore struct {
	log *logrus.Logger
	now func() time.Time

	mu         sync.RWMutex
	holdings   map[int64]models.Holding
	nextID     int64
	quotes     map[string]models.MarketQuote
	quoteOrder []string
	news       []models.NewsArticle
	nextNewsID int64
	valuations map[string]models.DailyValuation
}

func NewMemStore(log *logrus.Logger) *MemStore {
	return &MemStore{
		log:        log,
		now:        time.Now,
		holdings:   map[int64]models.Holding{},
		nextID:     1,
		quotes:     map[string]models.MarketQuote{},
		nextNewsID: 1,
		valuations: map[string]models.DailyValuation{},
	}
}

func (m *MemStore) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.Holding, 0, len(m.holdings))
	for _, h := range m.holdings {
		res = append(res, cloneHolding(h))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemStore) GetHolding(ctx context.Context, id int64) (models.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.holdings[id]
	if !ok {
		return models.Holding{}, ErrNotFound
	}
	return cloneHolding(h), nil
}

func (m *MemStore) CreateHolding(ctx context.Context, nh models.NewHolding) (models.Holding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := models.Holding{
		ID:           m.nextID,
		Name:         nh.Name,
		Symbol:       copyString(nh.Symbol),
		Units:        nh.Units,
		BuyingPrice:  nh.BuyingPrice,
		PurchaseDate: nh.PurchaseDate,
		Type:         nh.Type,
		CreatedAt:    m.now().UTC(),
	}
	m.nextID++
	m.holdings[h.ID] = h
	m.log.Debugf("created holding %d (%s)", h.ID, h.Name)
	return cloneHolding(h), nil
}

func (m *MemStore) UpdateHolding(ctx context.Context, id int64, patch models.HoldingPatch) (models.Holding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holdings[id]
	if !ok {
		return models.Holding{}, ErrNotFound
	}
	h = patch.Apply(h)
	m.holdings[id] = h
	return cloneHolding(h), nil
}

func (m *MemStore) DeleteHolding(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holdings[id]; !ok {
		return false, nil
	}
	delete(m.holdings, id)
	return true, nil
}

func (m *MemStore) GetQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.MarketQuote, 0, len(m.quoteOrder))
	for _, sym := range m.quoteOrder {
		res = append(res, m.quotes[sym])
	}
	return res, nil
}

func (m *MemStore) GetQuoteBySymbol(ctx context.Context, symbol string) (models.MarketQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[symbol]
	if !ok {
		return models.MarketQuote{}, ErrNotFound
	}
	return q, nil
}

func (m *MemStore) UpsertQuote(ctx context.Context, q models.MarketQuote) (models.MarketQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[q.Symbol]; !ok {
		m.quoteOrder = append(m.quoteOrder, q.Symbol)
	}
	q.UpdatedAt = m.now().UTC()
	m.quotes[q.Symbol] = q
	return q, nil
}

func (m *MemStore) GetNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []models.NewsArticle{}
	for _, a := range m.news {
		if category == "" || a.Category == category {
			res = append(res, a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].PublishedAt.After(res[j].PublishedAt) })
	return res, nil
}

func (m *MemStore) CreateNews(ctx context.Context, a models.NewsArticle) (models.NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextNewsID
	a.CreatedAt = m.now().UTC()
	m.nextNewsID++
	m.news = append(m.news, a)
	return a, nil
}

func (m *MemStore) SaveValuation(ctx context.Context, v models.DailyValuation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valuations[v.Date] = v
	return nil
}

func (m *MemStore) GetValuations(ctx context.Context) ([]models.DailyValuation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.DailyValuation, 0, len(m.valuations))
	for _, v := range m.valuations {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res, nil
}

// cloneHolding detaches the symbol pointer so callers cannot reach stored
// state.
func cloneHolding(h models.Holding) models.Holding {
	h.Symbol = copyString(h.Symbol)
	return h
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
