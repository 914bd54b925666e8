package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/kennethlove/practice-pycon/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var talkCols = []string{
	"id", "talk_list_id", "name", "slug", "host", "when", "room",
	"talk_rating", "speaker_rating", "notes", "notes_html", "created_at", "updated_at",
}

func talkRow(id string, when time.Time) []driver.Value {
	now := time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "list-1", "Effective Django", "effective-django", "Nathan", when, "517D",
		0, 0, "", "", now, now,
	}
}

func TestTalkRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC)
	when := time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		talk    *domain.Talk
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			talk: &domain.Talk{
				TalkListID: "list-1",
				Name:       "Effective Django",
				Slug:       "effective-django",
				Host:       "Nathan",
				When:       when,
				Room:       "517D",
				CreatedAt:  now,
				UpdatedAt:  now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO talks`).
					WithArgs("list-1", "Effective Django", "effective-django", "Nathan", when, "517D", 0, 0, "", "", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("talk-uuid-1"))
			},
		},
		{
			name: "unique violation returns ErrDuplicateTalkName",
			talk: &domain.Talk{TalkListID: "list-1", Name: "Effective Django"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO talks`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateTalkName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewTalkRepository(db)
			err = repo.Create(ctx, tt.talk)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "talk-uuid-1", tt.talk.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTalkRepository_GetBySlugForOwner(t *testing.T) {
	ctx := context.Background()
	when := time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM talks t\s+JOIN talk_lists l`).
			WithArgs("user-1", "effective-django").
			WillReturnRows(sqlmock.NewRows(talkCols).AddRow(talkRow("talk-1", when)...))

		repo := NewTalkRepository(db)
		talk, err := repo.GetBySlugForOwner(ctx, "user-1", "effective-django")
		require.NoError(t, err)
		assert.Equal(t, "talk-1", talk.ID)
		assert.Equal(t, "Nathan", talk.Host)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user's talk is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM talks t\s+JOIN talk_lists l`).
			WithArgs("user-2", "effective-django").
			WillReturnError(sql.ErrNoRows)

		repo := NewTalkRepository(db)
		_, err = repo.GetBySlugForOwner(ctx, "user-2", "effective-django")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTalkRepository_GetByIDInList(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM talks`).
		WithArgs("list-1", "missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewTalkRepository(db)
	_, err = repo.GetByIDInList(ctx, "list-1", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTalkRepository_ListByListID(t *testing.T) {
	ctx := context.Background()
	morning := time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC)
	afternoon := time.Date(2014, 4, 10, 14, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM talks`).
		WithArgs("list-1").
		WillReturnRows(sqlmock.NewRows(talkCols).
			AddRow(talkRow("talk-1", morning)...).
			AddRow(talkRow("talk-2", afternoon)...))

	repo := NewTalkRepository(db)
	talks, err := repo.ListByListID(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, talks, 2)
	assert.Equal(t, "talk-1", talks[0].ID)
	assert.Equal(t, "talk-2", talks[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTalkRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2014, 4, 11, 0, 0, 0, 0, time.UTC)
	when := time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC)

	talk := &domain.Talk{
		ID:            "talk-1",
		Name:          "Effective Django",
		Slug:          "effective-django",
		Host:          "Nathan",
		When:          when,
		Room:          "517D",
		TalkRating:    4,
		SpeakerRating: 5,
		Notes:         "great",
		NotesHTML:     "<p>great</p>",
		UpdatedAt:     now,
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE talks`).
			WithArgs("Effective Django", "effective-django", "Nathan", when, "517D", 4, 5, "great", "<p>great</p>", now, "talk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewTalkRepository(db)
		require.NoError(t, repo.Update(ctx, talk))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE talks`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewTalkRepository(db)
		require.ErrorIs(t, repo.Update(ctx, talk), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTalkRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM talks`).
			WithArgs("talk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewTalkRepository(db)
		require.NoError(t, repo.Delete(ctx, "talk-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM talks`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewTalkRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
