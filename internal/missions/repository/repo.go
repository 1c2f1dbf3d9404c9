package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/missiontracker/mission-backend/internal/missions/domain"
)

// MissionRepository provides persistence operations for missions.
// Every query is scoped by owner id.
type MissionRepository struct {
	db *sql.DB
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = `id, owner_id, title, description, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*domain.Mission, error) {
	var m domain.Mission
	var description sql.NullString
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &description, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		m.Description = &description.String
	}
	return &m, nil
}

// ListByOwner returns the owner's missions, most recent first.
func (r *MissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Mission, error) {
	const q = `
SELECT ` + missionColumns + `
FROM missions
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Mission, 0, 16)
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert persists a fully populated mission.
func (r *MissionRepository) Insert(ctx context.Context, m *domain.Mission) error {
	if m.OwnerID == "" {
		return fmt.Errorf("owner id required")
	}

	const q = `
INSERT INTO missions (id, owner_id, title, description, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.db.ExecContext(ctx, q, m.ID, m.OwnerID, m.Title, m.Description, m.Status, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("mission id %s already exists: %w", m.ID, err)
			case "23503":
				return fmt.Errorf("owner %s does not exist: %w", m.OwnerID, err)
			}
		}
		return err
	}
	return nil
}

// GetOwned fetches a mission by id only if it belongs to ownerID.
func (r *MissionRepository) GetOwned(ctx context.Context, ownerID, missionID string) (*domain.Mission, error) {
	const q = `
SELECT ` + missionColumns + `
FROM missions
WHERE id = $1 AND owner_id = $2;
`
	m, err := scanMission(r.db.QueryRowContext(ctx, q, missionID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Update overwrites the editable fields of an owned mission.
func (r *MissionRepository) Update(ctx context.Context, m *domain.Mission) error {
	const q = `
UPDATE missions
SET title = $3, description = $4, status = $5, updated_at = $6
WHERE id = $1 AND owner_id = $2;
`
	result, err := r.db.ExecContext(ctx, q, m.ID, m.OwnerID, m.Title, m.Description, m.Status, m.UpdatedAt)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete permanently removes an owned mission.
func (r *MissionRepository) Delete(ctx context.Context, ownerID, missionID string) error {
	const q = `
DELETE FROM missions
WHERE id = $1 AND owner_id = $2;
`
	result, err := r.db.ExecContext(ctx, q, missionID, ownerID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
