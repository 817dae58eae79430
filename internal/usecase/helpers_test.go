package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/lock"
	"github.com/xavierca1/ligue-crm/internal/infra/memstore"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const (
	ownerA = "0b6c3f0e-4a59-4f4e-a7a4-6f7b2f1d9a01"
	ownerB = "0b6c3f0e-4a59-4f4e-a7a4-6f7b2f1d9a02"
)

func str(s string) *string { return &s }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock     *fakeClock
	store     *memstore.Store
	events    *recordingPublisher
	pipeline  *usecase.PipelineEngine
	focus     *usecase.FocusScheduler
	leads     *usecase.LeadUseCase
	deals     *usecase.DealUseCase
	conns     *usecase.ConnectionUseCase
	tasks     *usecase.TaskUseCase
	dashboard *usecase.DashboardUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	clock := newFakeClock()
	store := memstore.New(clock.Now)
	repos := store.Repositories()
	events := &recordingPublisher{}

	focus := usecase.NewFocusScheduler(repos.Tasks, lock.NewKeyedMutex(), clock.Now, time.UTC, logger)
	return &fixture{
		clock:     clock,
		store:     store,
		events:    events,
		pipeline:  usecase.NewPipelineEngine(repos, events, clock.Now, logger),
		focus:     focus,
		leads:     usecase.NewLeadUseCase(repos.Leads, logger),
		deals:     usecase.NewDealUseCase(repos.Deals, repos.Leads, clock.Now, logger),
		conns:     usecase.NewConnectionUseCase(repos.Connections, logger),
		tasks:     usecase.NewTaskUseCase(repos.Tasks, repos.Connections, focus, logger),
		dashboard: usecase.NewDashboardUseCase(repos.Deals, focus),
	}
}

func (f *fixture) today() entity.Date { return entity.DateOf(f.clock.Now()) }

func (f *fixture) newTask(t *testing.T, title string, focus bool) *entity.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), ownerA, &entity.Task{Title: title, IsFocusTask: focus})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.PipelineEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, ev entity.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Types() []entity.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// MockTaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *entity.Task) error {
	// snapshot, the caller keeps mutating the pointer
	args := m.Called(ctx, task.Clone())
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Task, error) {
	args := m.Called(ctx, ownerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Task), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Lead, error) {
	args := m.Called(ctx, ownerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockDealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Deal, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

func (m *MockDealRepository) Update(ctx context.Context, deal *entity.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockDealRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Deal, error) {
	args := m.Called(ctx, ownerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Deal), args.Error(1)
}

// MockConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) Create(ctx context.Context, conn *entity.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Connection, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Connection), args.Error(1)
}

func (m *MockConnectionRepository) Update(ctx context.Context, conn *entity.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockConnectionRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Connection, error) {
	args := m.Called(ctx, ownerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Connection), args.Error(1)
}
