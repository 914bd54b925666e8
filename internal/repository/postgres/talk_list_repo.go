package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/kennethlove/practice-pycon/internal/domain"
)

type talkListRepository struct {
	DB *sql.DB
}

func NewTalkListRepository(db *sql.DB) domain.TalkListRepository {
	return &talkListRepository{DB: db}
}

func (r *talkListRepository) Create(ctx context.Context, l *domain.TalkList) error {
	query := `
		INSERT INTO talk_lists (owner_id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, l.OwnerID, l.Name, l.Slug, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateListName
		}
		return err
	}
	return nil
}

func (r *talkListRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TalkList, error) {
	query := `
		SELECT id, owner_id, name, slug, created_at, updated_at
		FROM talk_lists
		WHERE owner_id = $1 AND id = $2
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, ownerID, id))
}

// GetBySlug resolves a list by slug within the owner's lists. Two names may
// collapse to the same slug; the oldest list wins.
func (r *talkListRepository) GetBySlug(ctx context.Context, ownerID, slug string) (*domain.TalkList, error) {
	query := `
		SELECT id, owner_id, name, slug, created_at, updated_at
		FROM talk_lists
		WHERE owner_id = $1 AND slug = $2
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, ownerID, slug))
}

func (r *talkListRepository) scanOne(row *sql.Row) (*domain.TalkList, error) {
	l := &domain.TalkList{}
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Slug, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *talkListRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.TalkList, error) {
	query := `
		SELECT l.id, l.owner_id, l.name, l.slug, l.created_at, l.updated_at, COUNT(t.id) AS talk_count
		FROM talk_lists l
		LEFT JOIN talks t ON t.talk_list_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id, l.owner_id, l.name, l.slug, l.created_at, l.updated_at
		ORDER BY l.name
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lists := make([]*domain.TalkList, 0)
	for rows.Next() {
		l := &domain.TalkList{}
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Slug, &l.CreatedAt, &l.UpdatedAt, &l.TalkCount); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *talkListRepository) Update(ctx context.Context, l *domain.TalkList) error {
	query := `
		UPDATE talk_lists
		SET name = $1, slug = $2, updated_at = $3
		WHERE owner_id = $4 AND id = $5
	`
	result, err := r.DB.ExecContext(ctx, query, l.Name, l.Slug, l.UpdatedAt, l.OwnerID, l.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateListName
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *talkListRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM talk_lists WHERE owner_id = $1 AND id = $2`
	result, err := r.DB.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
