package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/kennethlove/practice-pycon/internal/domain"
)

const talkColumns = `id, talk_list_id, name, slug, host, "when", room, talk_rating, speaker_rating, notes, notes_html, created_at, updated_at`

type talkRepository struct {
	DB *sql.DB
}

func NewTalkRepository(db *sql.DB) domain.TalkRepository {
	return &talkRepository{DB: db}
}

func (r *talkRepository) Create(ctx context.Context, t *domain.Talk) error {
	query := `
		INSERT INTO talks (talk_list_id, name, slug, host, "when", room, talk_rating, speaker_rating, notes, notes_html, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		t.TalkListID, t.Name, t.Slug, t.Host, t.When, t.Room,
		t.TalkRating, t.SpeakerRating, t.Notes, t.NotesHTML, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateTalkName
		}
		return err
	}
	return nil
}

func (r *talkRepository) GetByIDInList(ctx context.Context, listID, id string) (*domain.Talk, error) {
	query := `
		SELECT ` + talkColumns + `
		FROM talks
		WHERE talk_list_id = $1 AND id = $2
	`
	return scanTalk(r.DB.QueryRowContext(ctx, query, listID, id))
}

// GetBySlugForOwner resolves a talk by slug across every list the owner has.
// The same talk name on two lists yields the same slug; the
// earliest-scheduled match wins.
func (r *talkRepository) GetBySlugForOwner(ctx context.Context, ownerID, slug string) (*domain.Talk, error) {
	query := `
		SELECT t.id, t.talk_list_id, t.name, t.slug, t.host, t."when", t.room, t.talk_rating, t.speaker_rating, t.notes, t.notes_html, t.created_at, t.updated_at
		FROM talks t
		JOIN talk_lists l ON l.id = t.talk_list_id
		WHERE l.owner_id = $1 AND t.slug = $2
		ORDER BY t."when"
		LIMIT 1
	`
	return scanTalk(r.DB.QueryRowContext(ctx, query, ownerID, slug))
}

func scanTalk(row *sql.Row) (*domain.Talk, error) {
	t := &domain.Talk{}
	err := row.Scan(
		&t.ID, &t.TalkListID, &t.Name, &t.Slug, &t.Host, &t.When, &t.Room,
		&t.TalkRating, &t.SpeakerRating, &t.Notes, &t.NotesHTML, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *talkRepository) ListByListID(ctx context.Context, listID string) ([]*domain.Talk, error) {
	query := `
		SELECT ` + talkColumns + `
		FROM talks
		WHERE talk_list_id = $1
		ORDER BY "when", room
	`
	rows, err := r.DB.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	talks := make([]*domain.Talk, 0)
	for rows.Next() {
		t := &domain.Talk{}
		if err := rows.Scan(
			&t.ID, &t.TalkListID, &t.Name, &t.Slug, &t.Host, &t.When, &t.Room,
			&t.TalkRating, &t.SpeakerRating, &t.Notes, &t.NotesHTML, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		talks = append(talks, t)
	}
	return talks, rows.Err()
}

func (r *talkRepository) Update(ctx context.Context, t *domain.Talk) error {
	query := `
		UPDATE talks
		SET name = $1, slug = $2, host = $3, "when" = $4, room = $5,
		    talk_rating = $6, speaker_rating = $7, notes = $8, notes_html = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := r.DB.ExecContext(ctx, query,
		t.Name, t.Slug, t.Host, t.When, t.Room,
		t.TalkRating, t.SpeakerRating, t.Notes, t.NotesHTML, t.UpdatedAt, t.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateTalkName
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *talkRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM talks WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
