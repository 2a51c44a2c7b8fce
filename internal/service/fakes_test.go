package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/config"
	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/internal/repository"
	"stocksim/pkg/cache"
	"stocksim/pkg/logger"
	"stocksim/pkg/utils"
)

var errInjectedFailure = errors.New("injected storage failure")

// fakeStore is an in-memory stand-in for every repository interface. The
// unit of work copies state before running a mutation and restores it on
// error, mimicking transactional rollback.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uint]*model.User
	portfolios   map[uint]*model.Portfolio // keyed by user id
	positions    map[uint]map[string]*model.Position
	transactions []model.Transaction
	snapshots    map[string]*model.PortfolioSnapshot
	stocks       map[string]*model.Stock
	nextID       uint

	failSnapshotUpsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uint]*model.User),
		portfolios: make(map[uint]*model.Portfolio),
		positions:  make(map[uint]map[string]*model.Position),
		snapshots:  make(map[string]*model.PortfolioSnapshot),
		stocks:     make(map[string]*model.Stock),
		nextID:     1,
	}
}

func (f *fakeStore) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func snapshotKey(portfolioID uint, date time.Time) string {
	return fmt.Sprintf("%d|%s", portfolioID, utils.FormatDate(date))
}

// --- UnitOfWork ---

func (f *fakeStore) Run(fn func(opts ...utils.DBOption) error) error {
	f.mu.Lock()
	backup := f.clone()
	f.mu.Unlock()

	if err := fn(); err != nil {
		f.mu.Lock()
		f.restore(backup)
		f.mu.Unlock()
		return err
	}
	return nil
}

type storeBackup struct {
	users        map[uint]*model.User
	portfolios   map[uint]*model.Portfolio
	positions    map[uint]map[string]*model.Position
	transactions []model.Transaction
	snapshots    map[string]*model.PortfolioSnapshot
	nextID       uint
}

func (f *fakeStore) clone() storeBackup {
	b := storeBackup{
		users:        make(map[uint]*model.User, len(f.users)),
		portfolios:   make(map[uint]*model.Portfolio, len(f.portfolios)),
		positions:    make(map[uint]map[string]*model.Position, len(f.positions)),
		transactions: append([]model.Transaction(nil), f.transactions...),
		snapshots:    make(map[string]*model.PortfolioSnapshot, len(f.snapshots)),
		nextID:       f.nextID,
	}
	for k, v := range f.users {
		cp := *v
		b.users[k] = &cp
	}
	for k, v := range f.portfolios {
		cp := *v
		b.portfolios[k] = &cp
	}
	for pid, bySymbol := range f.positions {
		m := make(map[string]*model.Position, len(bySymbol))
		for sym, pos := range bySymbol {
			cp := *pos
			m[sym] = &cp
		}
		b.positions[pid] = m
	}
	for k, v := range f.snapshots {
		cp := *v
		b.snapshots[k] = &cp
	}
	return b
}

func (f *fakeStore) restore(b storeBackup) {
	f.users = b.users
	f.portfolios = b.portfolios
	f.positions = b.positions
	f.transactions = b.transactions
	f.snapshots = b.snapshots
	f.nextID = b.nextID
}

// --- PortfolioRepository ---

func (f *fakeStore) GetByUserID(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	portfolio, ok := f.portfolios[userID]
	if !ok {
		return nil, nil
	}
	cp := *portfolio
	return &cp, nil
}

func (f *fakeStore) ListAll(ctx context.Context, opts ...utils.DBOption) ([]model.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Portfolio, 0, len(f.portfolios))
	for _, p := range f.portfolios {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	portfolio.ID = f.id()
	cp := *portfolio
	f.portfolios[portfolio.UserID] = &cp
	return nil
}

func (f *fakeStore) Save(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *portfolio
	f.portfolios[portfolio.UserID] = &cp
	return nil
}

// --- PositionRepository (methods are disambiguated by receiver wrappers below) ---

type fakePositionRepo struct{ store *fakeStore }

func (r *fakePositionRepo) GetBySymbol(ctx context.Context, portfolioID uint, symbol string, opts ...utils.DBOption) (*model.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	position, ok := r.store.positions[portfolioID][symbol]
	if !ok {
		return nil, nil
	}
	cp := *position
	return &cp, nil
}

func (r *fakePositionRepo) ListByPortfolio(ctx context.Context, portfolioID uint, opts ...utils.DBOption) ([]model.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Position, 0, len(r.store.positions[portfolioID]))
	for _, p := range r.store.positions[portfolioID] {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePositionRepo) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	position.ID = r.store.id()
	if r.store.positions[position.PortfolioID] == nil {
		r.store.positions[position.PortfolioID] = make(map[string]*model.Position)
	}
	cp := *position
	r.store.positions[position.PortfolioID][position.Symbol] = &cp
	return nil
}

func (r *fakePositionRepo) Save(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *position
	r.store.positions[position.PortfolioID][position.Symbol] = &cp
	return nil
}

func (r *fakePositionRepo) Delete(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.positions[position.PortfolioID], position.Symbol)
	return nil
}

// --- TransactionRepository ---

type fakeTransactionRepo struct{ store *fakeStore }

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *model.Transaction, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	transaction.ID = r.store.id()
	r.store.transactions = append(r.store.transactions, *transaction)
	return nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, param dto.TransactionHistoryParam, opts ...utils.DBOption) ([]model.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var filtered []model.Transaction
	for _, t := range r.store.transactions {
		if t.PortfolioID != param.PortfolioID {
			continue
		}
		if param.Symbol != "" && t.Symbol != param.Symbol {
			continue
		}
		filtered = append(filtered, t)
	}
	if !param.Ascending {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}
	if param.Offset > 0 {
		if param.Offset >= len(filtered) {
			return nil, nil
		}
		filtered = filtered[param.Offset:]
	}
	if param.Limit > 0 && len(filtered) > param.Limit {
		filtered = filtered[:param.Limit]
	}
	return filtered, nil
}

// --- PortfolioSnapshotRepository ---

type fakeSnapshotRepo struct{ store *fakeStore }

func (r *fakeSnapshotRepo) Upsert(ctx context.Context, snapshot *model.PortfolioSnapshot, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failSnapshotUpsert {
		return errInjectedFailure
	}
	key := snapshotKey(snapshot.PortfolioID, snapshot.SnapshotDate)
	if existing, ok := r.store.snapshots[key]; ok {
		snapshot.ID = existing.ID
	} else {
		snapshot.ID = r.store.id()
	}
	cp := *snapshot
	r.store.snapshots[key] = &cp
	return nil
}

func (r *fakeSnapshotRepo) ListRange(ctx context.Context, param dto.SnapshotRangeParam, opts ...utils.DBOption) ([]model.PortfolioSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.PortfolioSnapshot
	for _, s := range r.store.snapshots {
		if s.PortfolioID != param.PortfolioID {
			continue
		}
		if !param.From.IsZero() && s.SnapshotDate.Before(param.From) {
			continue
		}
		if !param.To.IsZero() && s.SnapshotDate.After(param.To) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// --- UserRepository ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.store.id()
	}
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

// --- StockRepository ---

type fakeStockRepo struct{ store *fakeStore }

func (r *fakeStockRepo) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stock, ok := r.store.stocks[symbol]
	if !ok {
		return nil, nil
	}
	cp := *stock
	return &cp, nil
}

func (r *fakeStockRepo) List(ctx context.Context, opts ...utils.DBOption) ([]model.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Stock, 0, len(r.store.stocks))
	for _, s := range r.store.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStockRepo) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stock, ok := r.store.stocks[symbol]
	if !ok {
		return errInjectedFailure
	}
	stock.LastPrice = price
	return nil
}

// --- helpers ---

func newTestRepository(store *fakeStore) *repository.Repository {
	return &repository.Repository{
		UserRepo:        &fakeUserRepo{store: store},
		PortfolioRepo:   store,
		PositionRepo:    &fakePositionRepo{store: store},
		TransactionRepo: &fakeTransactionRepo{store: store},
		SnapshotRepo:    &fakeSnapshotRepo{store: store},
		StockRepo:       &fakeStockRepo{store: store},
		UnitOfWork:      store,
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Simulation: config.Simulation{
			InitialBalance: "10000",
			StartDate:      "2024-01-02",
		},
		Cache: config.Cache{
			DefaultExpiration: time.Minute,
			CleanupInterval:   time.Minute,
		},
		Valuation: config.Valuation{
			CronSpec:       "0 * * * *",
			MaxConcurrency: 2,
		},
	}
}

func newTestLogger() *logger.Logger {
	log, err := logger.New("error", "json")
	if err != nil {
		panic(err)
	}
	return log
}

func newTestCache() cache.Cache {
	return cache.NewCache(time.Minute, time.Minute)
}

func (f *fakeStore) seedPortfolio(userID uint, cash string, simDate string) *model.Portfolio {
	balance := decimal.RequireFromString(cash)
	date, err := utils.ParseDate(simDate)
	if err != nil {
		panic(err)
	}
	portfolio := &model.Portfolio{
		UserID:         userID,
		CashBalance:    balance,
		InitialBalance: balance,
		TotalValue:     balance,
		SimulationDate: date,
	}
	_ = f.Create(context.Background(), portfolio)
	return portfolio
}

func (f *fakeStore) seedStock(symbol, name, lastPrice string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[symbol] = &model.Stock{
		ID:        f.id(),
		Symbol:    symbol,
		Name:      name,
		LastPrice: decimal.RequireFromString(lastPrice),
	}
}
