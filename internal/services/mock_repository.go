package services

import (
	"context"
	"fmt"
	"sync"

	"voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/types"
)

// MockStateRepository implements StateRepository in memory for testing.
type MockStateRepository struct {
	mu             sync.Mutex
	state          types.TrackingState
	saved          bool
	saveCallCount  int
	loadCallCount  int
	shouldFailSave bool
	shouldFailLoad bool
}

// NewMockStateRepository creates an empty mock state store.
func NewMockStateRepository() *MockStateRepository {
	return &MockStateRepository{}
}

// SetFailureModes configures the mock to simulate failures.
func (m *MockStateRepository) SetFailureModes(load, save bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailLoad = load
	m.shouldFailSave = save
}

// TrackingState implements StateRepository.
func (m *MockStateRepository) TrackingState(ctx context.Context) (types.TrackingState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadCallCount++
	if m.shouldFailLoad {
		return types.DefaultTrackingState(), errors.New("TrackingState", fmt.Errorf("mock load failure"), errors.ErrCodeConnection)
	}
	if !m.saved {
		return types.DefaultTrackingState(), nil
	}
	return m.state, nil
}

// SaveTrackingState implements StateRepository.
func (m *MockStateRepository) SaveTrackingState(ctx context.Context, state types.TrackingState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCallCount++
	if m.shouldFailSave {
		return errors.New("SaveTrackingState", fmt.Errorf("mock save failure"), errors.ErrCodeConnection)
	}
	m.state = state
	m.saved = true
	return nil
}

// Saved returns the last saved state and whether anything was saved.
func (m *MockStateRepository) Saved() (types.TrackingState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.saved
}

// MockHistoryRepository implements HistoryRepository in memory for testing.
type MockHistoryRepository struct {
	mu              sync.Mutex
	entries         map[string]types.DailyData
	order           []string
	appendCallCount int
	shouldFailWrite bool
}

// NewMockHistoryRepository creates an empty mock history store.
func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{entries: make(map[string]types.DailyData)}
}

// SetFailureModes configures the mock to simulate failures.
func (m *MockHistoryRepository) SetFailureModes(write bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailWrite = write
}

// AppendDailyEntry implements HistoryRepository.
func (m *MockHistoryRepository) AppendDailyEntry(ctx context.Context, entry types.DailyData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendCallCount++
	if m.shouldFailWrite {
		return errors.New("AppendDailyEntry", fmt.Errorf("mock write failure"), errors.ErrCodeConnection)
	}
	if _, exists := m.entries[entry.Date]; !exists {
		m.order = append(m.order, entry.Date)
	}
	m.entries[entry.Date] = entry
	return nil
}

// DailyHistory implements HistoryRepository.
func (m *MockHistoryRepository) DailyHistory(ctx context.Context, days int) ([]types.DailyData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := 0
	if len(m.order) > days {
		start = len(m.order) - days
	}
	result := make([]types.DailyData, 0, len(m.order)-start)
	for _, date := range m.order[start:] {
		result = append(result, m.entries[date])
	}
	return result, nil
}

// EntryCount implements HistoryRepository.
func (m *MockHistoryRepository) EntryCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order), nil
}

// AppendCallCount returns how often AppendDailyEntry was called.
func (m *MockHistoryRepository) AppendCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendCallCount
}

// Seed inserts entries directly, oldest first.
func (m *MockHistoryRepository) Seed(entries ...types.DailyData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		if _, exists := m.entries[entry.Date]; !exists {
			m.order = append(m.order, entry.Date)
		}
		m.entries[entry.Date] = entry
	}
}

// MockRuleRepository implements RuleRepository in memory for testing.
type MockRuleRepository struct {
	mu             sync.Mutex
	texts          map[string]string
	shouldFailRead bool
}

// NewMockRuleRepository creates an empty mock rule store.
func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{texts: make(map[string]string)}
}

// SetFailureModes configures the mock to simulate failures.
func (m *MockRuleRepository) SetFailureModes(read bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailRead = read
}

// RuleText implements RuleRepository.
func (m *MockRuleRepository) RuleText(ctx context.Context, pkg string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFailRead {
		return "", false, errors.New("RuleText", fmt.Errorf("mock read failure"), errors.ErrCodeConnection)
	}
	text, found := m.texts[pkg]
	return text, found, nil
}

// SetRuleText implements RuleRepository.
func (m *MockRuleRepository) SetRuleText(ctx context.Context, pkg, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[pkg] = text
	return nil
}

// DeleteRules implements RuleRepository.
func (m *MockRuleRepository) DeleteRules(ctx context.Context, pkg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.texts, pkg)
	return nil
}

// AllRuleTexts implements RuleRepository.
func (m *MockRuleRepository) AllRuleTexts(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFailRead {
		return nil, errors.New("AllRuleTexts", fmt.Errorf("mock read failure"), errors.ErrCodeConnection)
	}
	out := make(map[string]string, len(m.texts))
	for pkg, text := range m.texts {
		out[pkg] = text
	}
	return out, nil
}

// MockPrefsRepository implements PrefsRepository in memory for testing.
type MockPrefsRepository struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMockPrefsRepository creates an empty mock preference store.
func NewMockPrefsRepository() *MockPrefsRepository {
	return &MockPrefsRepository{values: make(map[string]string)}
}

// Pref implements PrefsRepository.
func (m *MockPrefsRepository) Pref(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, found := m.values[key]
	return value, found, nil
}

// SetPref implements PrefsRepository.
func (m *MockPrefsRepository) SetPref(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

var (
	_ repository.StateRepository   = (*MockStateRepository)(nil)
	_ repository.HistoryRepository = (*MockHistoryRepository)(nil)
	_ repository.RuleRepository    = (*MockRuleRepository)(nil)
	_ repository.PrefsRepository   = (*MockPrefsRepository)(nil)
)
