package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Begun []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Begun = append(m.Begun, tx)
	return tx, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	ListByBookFunc       func(ctx context.Context, bookID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByBookFunc != nil {
		return m.ListByBookFunc(ctx, bookID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		if a.BookID == bookID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// MockCheckpointRepository keeps a real in-memory checkpoint series per
// account, with the same ordering and shift semantics as the SQL
// implementation, so propagation logic can be exercised end to end without a
// database.
type MockCheckpointRepository struct {
	mu     sync.RWMutex
	series map[string][]*domain.Checkpoint

	ShiftAmountsFromFunc func(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time, delta decimal.Decimal, inclusive bool) error
	UpsertFunc           func(ctx context.Context, tx usecase.Transaction, checkpoint *domain.Checkpoint) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) error
}

func NewMockCheckpointRepository() *MockCheckpointRepository {
	return &MockCheckpointRepository{
		series: make(map[string][]*domain.Checkpoint),
	}
}

// Seed installs checkpoints directly, bypassing propagation.
func (m *MockCheckpointRepository) Seed(accountID string, checkpoints ...*domain.Checkpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range checkpoints {
		c := *cp
		m.series[accountID] = append(m.series[accountID], &c)
	}
	m.sortSeries(accountID)
}

// Series returns a copy of the account's checkpoint series in date order.
func (m *MockCheckpointRepository) Series(accountID string) []*domain.Checkpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Checkpoint, 0, len(m.series[accountID]))
	for _, cp := range m.series[accountID] {
		c := *cp
		out = append(out, &c)
	}
	return out
}

func (m *MockCheckpointRepository) FindAt(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cp := range m.series[accountID] {
		if cp.Date.Equal(date) {
			c := *cp
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCheckpointRepository) FindLatestBefore(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *domain.Checkpoint
	for _, cp := range m.series[accountID] {
		if cp.Date.Before(date) {
			found = cp
		}
	}
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}

func (m *MockCheckpointRepository) FindLatestAtOrBefore(ctx context.Context, accountID string, date time.Time) (*domain.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *domain.Checkpoint
	for _, cp := range m.series[accountID] {
		if !cp.Date.After(date) {
			found = cp
		}
	}
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}

func (m *MockCheckpointRepository) ListFromForUpdate(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) ([]*domain.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Checkpoint
	for _, cp := range m.series[accountID] {
		if !cp.Date.Before(date) {
			c := *cp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MockCheckpointRepository) ListRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Checkpoint
	for _, cp := range m.series[accountID] {
		if !cp.Date.Before(from) && !cp.Date.After(to) {
			c := *cp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MockCheckpointRepository) ShiftAmountsFrom(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time, delta decimal.Decimal, inclusive bool) error {
	if m.ShiftAmountsFromFunc != nil {
		return m.ShiftAmountsFromFunc(ctx, tx, accountID, date, delta, inclusive)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range m.series[accountID] {
		if cp.Date.After(date) || (inclusive && cp.Date.Equal(date)) {
			cp.Amount = cp.Amount.Add(delta)
		}
	}
	return nil
}

func (m *MockCheckpointRepository) Upsert(ctx context.Context, tx usecase.Transaction, checkpoint *domain.Checkpoint) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, checkpoint)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range m.series[checkpoint.AccountID] {
		if cp.Date.Equal(checkpoint.Date) {
			cp.Amount = checkpoint.Amount
			return nil
		}
	}
	c := *checkpoint
	m.series[checkpoint.AccountID] = append(m.series[checkpoint.AccountID], &c)
	m.sortSeries(checkpoint.AccountID)
	return nil
}

func (m *MockCheckpointRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, accountID, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	series := m.series[accountID]
	for i, cp := range series {
		if cp.Date.Equal(date) {
			m.series[accountID] = append(series[:i], series[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockCheckpointRepository) sortSeries(accountID string) {
	sort.Slice(m.series[accountID], func(i, j int) bool {
		return m.series[accountID][i].Date.Before(m.series[accountID][j].Date)
	})
}

// MockBookRepository is a mock implementation of BookRepository.
type MockBookRepository struct {
	mu      sync.RWMutex
	books   map[string]*domain.Book
	members map[string]bool

	IsMemberFunc func(ctx context.Context, bookID, userID string) (bool, error)
}

func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books:   make(map[string]*domain.Book),
		members: make(map[string]bool),
	}
}

func (m *MockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
	return nil
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBookNotFound
}

func (m *MockBookRepository) AddMember(ctx context.Context, bookID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[bookID+"/"+userID] = true
	return nil
}

func (m *MockBookRepository) IsMember(ctx context.Context, bookID, userID string) (bool, error) {
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(ctx, bookID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[bookID+"/"+userID], nil
}

// MockTagRepository is a mock implementation of TagRepository.
type MockTagRepository struct {
	mu   sync.RWMutex
	tags map[string]*domain.Tag

	GetByIDFunc func(ctx context.Context, id string) (*domain.Tag, error)
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{tags: make(map[string]*domain.Tag)}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[tag.ID] = tag
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tags[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTagNotFound
}

func (m *MockTagRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tags []*domain.Tag
	for _, t := range m.tags {
		if t.BookID == bookID {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockFlowRecordRepository is a mock implementation of FlowRecordRepository.
type MockFlowRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.FlowRecord

	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockFlowRecordRepository() *MockFlowRecordRepository {
	return &MockFlowRecordRepository{records: make(map[string]*domain.FlowRecord)}
}

func (m *MockFlowRecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *record
	m.records[record.ID] = &r
	return nil
}

func (m *MockFlowRecordRepository) GetByID(ctx context.Context, id string) (*domain.FlowRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrFlowRecordNotFound
}

func (m *MockFlowRecordRepository) Update(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *record
	m.records[record.ID] = &r
	return nil
}

func (m *MockFlowRecordRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MockFlowRecordRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FlowRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.FlowRecord
	for _, r := range m.records {
		if r.AccountID == accountID {
			c := *r
			records = append(records, &c)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// MockTransferRecordRepository is a mock implementation of
// TransferRecordRepository.
type MockTransferRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.TransferRecord

	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error
}

func NewMockTransferRecordRepository() *MockTransferRecordRepository {
	return &MockTransferRecordRepository{records: make(map[string]*domain.TransferRecord)}
}

func (m *MockTransferRecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *record
	m.records[record.ID] = &r
	return nil
}

func (m *MockTransferRecordRepository) GetByID(ctx context.Context, id string) (*domain.TransferRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrTransferRecordNotFound
}

func (m *MockTransferRecordRepository) Update(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *record
	m.records[record.ID] = &r
	return nil
}

func (m *MockTransferRecordRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MockTransferRecordRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.TransferRecord
	for _, r := range m.records {
		if r.FromAccountID == accountID || r.ToAccountID == accountID {
			c := *r
			records = append(records, &c)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%04d", m.n)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]string

	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}
