package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/missiontracker/mission-backend/internal/missions/domain"
)

// Store is the persistence collaborator of MissionService. GetOwned, Update and
// Delete return domain.ErrNotFound when no row matches both id and owner.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Mission, error)
	Insert(ctx context.Context, m *domain.Mission) error
	GetOwned(ctx context.Context, ownerID, missionID string) (*domain.Mission, error)
	Update(ctx context.Context, m *domain.Mission) error
	Delete(ctx context.Context, ownerID, missionID string) error
}

// MissionService handles mission business logic. Every operation is scoped to
// the authenticated owner.
type MissionService struct {
	store Store
	now   func() time.Time
	newID func() string
}

type Option func(*MissionService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *MissionService) { s.now = now }
}

// WithIDGenerator overrides mission id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *MissionService) { s.newID = newID }
}

// NewMissionService creates a new mission service
func NewMissionService(store Store, opts ...Option) *MissionService {
	s := &MissionService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the owner's missions, most recent first.
func (s *MissionService) List(ctx context.Context, ownerID string) ([]domain.Mission, error) {
	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list missions", Err: err}
	}
	if items == nil {
		items = []domain.Mission{}
	}
	return items, nil
}

// Create validates the input and persists a new mission owned by ownerID.
func (s *MissionService) Create(ctx context.Context, ownerID string, in domain.MissionInput) (*domain.Mission, error) {
	fields, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	status := fields.Status
	if status == "" {
		status = domain.DefaultStatus
	}

	now := s.timestamp()
	m := &domain.Mission{
		ID:          s.newID(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Insert(ctx, m); err != nil {
		return nil, &domain.StorageError{Op: "create mission", Err: err}
	}
	return m, nil
}

// Update overwrites title and description of an owned mission. An omitted or
// blank status keeps the stored one.
func (s *MissionService) Update(ctx context.Context, ownerID, missionID string, in domain.MissionInput) (*domain.Mission, error) {
	fields, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	existing, err := s.fetchOwned(ctx, ownerID, missionID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = fields.Title
	updated.Description = fields.Description
	if fields.Status != "" {
		updated.Status = fields.Status
	}
	updated.UpdatedAt = s.timestamp()

	if err := s.store.Update(ctx, &updated); err != nil {
		// the row vanished between fetch and update
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "update mission", Err: err}
	}
	return &updated, nil
}

// Delete permanently removes an owned mission.
func (s *MissionService) Delete(ctx context.Context, ownerID, missionID string) error {
	if _, err := s.fetchOwned(ctx, ownerID, missionID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, ownerID, missionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return &domain.StorageError{Op: "delete mission", Err: err}
	}
	return nil
}

// fetchOwned loads a mission visible to ownerID. Missing and foreign missions
// both yield domain.ErrNotFound.
func (s *MissionService) fetchOwned(ctx context.Context, ownerID, missionID string) (*domain.Mission, error) {
	if ownerID == "" || missionID == "" {
		return nil, domain.ErrNotFound
	}

	m, err := s.store.GetOwned(ctx, ownerID, missionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "fetch mission", Err: err}
	}
	if m.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// timestamp is truncated to the precision Postgres stores.
func (s *MissionService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
