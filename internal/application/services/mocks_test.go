package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/repositories"
)

// Mocks shared by the service tests

type MockQueueRepository struct {
	mock.Mock
}

func (m *MockQueueRepository) Create(ctx context.Context, entry *entities.QueueEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockQueueRepository) GetByID(ctx context.Context, id string) (*entities.QueueEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) ListWaiting(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) GetInProgress(ctx context.Context, doctorID string) (*entities.QueueEntry, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) CountByDepartmentBetween(ctx context.Context, departmentID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, departmentID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockQueueRepository) ApplyPositions(ctx context.Context, updates []repositories.PositionUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func (m *MockQueueRepository) MarkInProgress(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockQueueRepository) MarkCompleted(ctx context.Context, id string, endedAt time.Time) error {
	args := m.Called(ctx, id, endedAt)
	return args.Error(0)
}

func (m *MockQueueRepository) UpdateEstimate(ctx context.Context, id string, minutes int) error {
	args := m.Called(ctx, id, minutes)
	return args.Error(0)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) UpdateStatus(ctx context.Context, id string, status entities.DoctorStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDoctorRepository) UpdateAverageConsultation(ctx context.Context, id string, minutes float64) error {
	args := m.Called(ctx, id, minutes)
	return args.Error(0)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) GetByID(ctx context.Context, id string) (*entities.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Department), args.Error(1)
}

type MockConsultationRepository struct {
	mock.Mock
}

func (m *MockConsultationRepository) Create(ctx context.Context, record *entities.ConsultationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConsultationRepository) MeanDurationMinutes(ctx context.Context, doctorID string) (float64, int, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.QueueEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.QueueEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// stubUnitOfWork hands the test's mocks to the transactional closure so
// expectations can be set on the same objects
type stubUnitOfWork struct {
	queue         *MockQueueRepository
	doctors       *MockDoctorRepository
	consultations *MockConsultationRepository
}

func (s *stubUnitOfWork) WithinTx(ctx context.Context, fn func(repos repositories.TxRepositories) error) error {
	return fn(s)
}

func (s *stubUnitOfWork) Queue() repositories.QueueRepository { return s.queue }

func (s *stubUnitOfWork) Doctors() repositories.DoctorRepository { return s.doctors }

func (s *stubUnitOfWork) Consultations() repositories.ConsultationRepository { return s.consultations }

// fixedClock pins Now for deterministic token dates and wait estimates
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
