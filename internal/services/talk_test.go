package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kennethlove/practice-pycon/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotesRenderer implements domain.NotesRenderer for tests.
type fakeNotesRenderer struct {
	err error
}

func (f *fakeNotesRenderer) Render(notes string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if notes == "" {
		return "", nil
	}
	return "<p>" + notes + "</p>", nil
}

func testWindow() domain.Window {
	return domain.Window{
		Start: time.Date(2014, 4, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2014, 4, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestTalkService_Add(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	inside := time.Date(2014, 4, 10, 14, 30, 0, 0, time.UTC)

	valid := domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: inside, Room: "517D"}

	tests := []struct {
		name       string
		in         domain.TalkInput
		wantFields []string
	}{
		{
			name: "success",
			in:   valid,
		},
		{
			name: "missing name",
			in:   domain.TalkInput{Host: "Nathan", When: inside, Room: "517D"},
			wantFields: []string{"name"},
		},
		{
			name: "missing host",
			in:   domain.TalkInput{Name: "Effective Django", When: inside, Room: "517D"},
			wantFields: []string{"host"},
		},
		{
			name: "missing when",
			in:   domain.TalkInput{Name: "Effective Django", Host: "Nathan", Room: "517D"},
			wantFields: []string{"when"},
		},
		{
			name: "when at window start",
			in:   domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: testWindow().Start, Room: "517D"},
			wantFields: []string{"when"},
		},
		{
			name: "when at window end",
			in:   domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: testWindow().End, Room: "517D"},
			wantFields: []string{"when"},
		},
		{
			name: "when after window",
			in:   domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: time.Date(2014, 5, 1, 0, 0, 0, 0, time.UTC), Room: "517D"},
			wantFields: []string{"when"},
		},
		{
			name: "unknown room",
			in:   domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: inside, Room: "Ballroom"},
			wantFields: []string{"room"},
		},
		{
			name: "name too long",
			in:   domain.TalkInput{Name: strings.Repeat("x", 256), Host: "Nathan", When: inside, Room: "517D"},
			wantFields: []string{"name"},
		},
		{
			name:       "everything wrong at once",
			in:         domain.TalkInput{},
			wantFields: []string{"name", "host", "when", "room"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := newFakeListRepo()
			talks := newFakeTalkRepo()
			list := lists.add(domain.NewTalkList("user-1", "PyCon", now))
			talks.listOwners[list.ID] = "user-1"
			svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

			talk, err := svc.Add(ctx, "user-1", "pycon", tt.in)

			if len(tt.wantFields) > 0 {
				require.Error(t, err)
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				var fields []string
				for _, fe := range ve.Fields {
					fields = append(fields, fe.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
				assert.Nil(t, talk)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, talk)
			assert.Equal(t, list.ID, talk.TalkListID)
			assert.Equal(t, "effective-django", talk.Slug)
			assert.NotEmpty(t, talk.ID)
		})
	}
}

func TestTalkService_Add_WindowMessage(t *testing.T) {
	ctx := context.Background()
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	list := lists.add(domain.NewTalkList("user-1", "PyCon", time.Now()))
	talks.listOwners[list.ID] = "user-1"
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	_, err := svc.Add(ctx, "user-1", "pycon", domain.TalkInput{
		Name: "Too Early",
		Host: "Host",
		When: time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC),
		Room: "520",
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "when", ve.Fields[0].Field)
	assert.Equal(t, "'when' is outside of PyCon.", ve.Fields[0].Message)
}

func TestTalkService_Add_MultibyteNameLength(t *testing.T) {
	ctx := context.Background()
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	list := lists.add(domain.NewTalkList("user-1", "PyCon", time.Now()))
	talks.listOwners[list.ID] = "user-1"
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	inside := time.Date(2014, 4, 10, 14, 30, 0, 0, time.UTC)

	// The limit counts characters, so 255 two-byte runes must pass.
	talk, err := svc.Add(ctx, "user-1", "pycon", domain.TalkInput{
		Name: strings.Repeat("é", 255),
		Host: strings.Repeat("ü", 255),
		When: inside,
		Room: "517D",
	})
	require.NoError(t, err)
	require.NotNil(t, talk)

	_, err = svc.Add(ctx, "user-1", "pycon", domain.TalkInput{
		Name: strings.Repeat("é", 256),
		Host: strings.Repeat("ü", 256),
		When: inside,
		Room: "517D",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	var fields []string
	for _, fe := range ve.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"name", "host"}, fields)
}

func TestTalkService_Add_DuplicateName(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	inside := time.Date(2014, 4, 10, 14, 30, 0, 0, time.UTC)
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	list := lists.add(domain.NewTalkList("user-1", "PyCon", now))
	other := lists.add(domain.NewTalkList("user-1", "Other", now))
	talks.listOwners[list.ID] = "user-1"
	talks.listOwners[other.ID] = "user-1"
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	in := domain.TalkInput{Name: "Effective Django", Host: "Nathan", When: inside, Room: "517D"}
	_, err := svc.Add(ctx, "user-1", "pycon", in)
	require.NoError(t, err)

	// Same name on the same list is rejected with a field error.
	_, err = svc.Add(ctx, "user-1", "pycon", in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Fields[0].Field)

	// Same name on a different list is allowed.
	_, err = svc.Add(ctx, "user-1", "other", in)
	assert.NoError(t, err)
}

func TestTalkService_Add_ListScoping(t *testing.T) {
	ctx := context.Background()
	inside := time.Date(2014, 4, 10, 14, 30, 0, 0, time.UTC)
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	list := lists.add(domain.NewTalkList("user-1", "PyCon", time.Now()))
	talks.listOwners[list.ID] = "user-1"
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	_, err := svc.Add(ctx, "user-2", "pycon", domain.TalkInput{Name: "N", Host: "H", When: inside, Room: "520"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTalkService_Detail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	list := lists.add(domain.NewTalkList("user-1", "PyCon", now))
	talks.listOwners[list.ID] = "user-1"
	talk := talks.add(domain.NewTalk(list.ID, "Effective Django", "Nathan", "517D", time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC), now))
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	got, err := svc.Detail(ctx, "user-1", "effective-django")
	require.NoError(t, err)
	assert.Equal(t, talk.ID, got.ID)

	_, err = svc.Detail(ctx, "user-2", "effective-django")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Detail(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTalkService_Detail_SlugCollisionPicksEarliest(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	lists := newFakeListRepo()
	talks := newFakeTalkRepo()
	a := lists.add(domain.NewTalkList("user-1", "List A", now))
	b := lists.add(domain.NewTalkList("user-1", "List B", now))
	talks.listOwners[a.ID] = "user-1"
	talks.listOwners[b.ID] = "user-1"
	later := talks.add(domain.NewTalk(a.ID, "Shared Name", "Host", "520", time.Date(2014, 4, 11, 9, 0, 0, 0, time.UTC), now))
	earliest := talks.add(domain.NewTalk(b.ID, "Shared Name", "Host", "520", time.Date(2014, 4, 9, 9, 0, 0, 0, time.UTC), now))
	svc := NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second)

	got, err := svc.Detail(ctx, "user-1", "shared-name")
	require.NoError(t, err)
	assert.Equal(t, earliest.ID, got.ID)
	assert.NotEqual(t, later.ID, got.ID)
}

func TestTalkService_Review(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	newSvc := func() (domain.TalkService, *fakeTalkRepo, *domain.Talk) {
		lists := newFakeListRepo()
		talks := newFakeTalkRepo()
		list := lists.add(domain.NewTalkList("user-1", "PyCon", now))
		talks.listOwners[list.ID] = "user-1"
		talk := talks.add(domain.NewTalk(list.ID, "Effective Django", "Nathan", "517D", time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC), now))
		return NewTalkService(lists, talks, &fakeNotesRenderer{}, testWindow(), time.Second), talks, talk
	}

	t.Run("sets ratings and renders notes", func(t *testing.T) {
		svc, talks, talk := newSvc()

		got, err := svc.Review(ctx, "user-1", "effective-django", 4, 5, "great talk")
		require.NoError(t, err)
		assert.Equal(t, 4, got.TalkRating)
		assert.Equal(t, 5, got.SpeakerRating)
		assert.Equal(t, "great talk", got.Notes)
		assert.Equal(t, "<p>great talk</p>", got.NotesHTML)
		assert.Equal(t, 4, got.OverallRating())

		stored, err := talks.GetByIDInList(ctx, talk.TalkListID, talk.ID)
		require.NoError(t, err)
		assert.Equal(t, "<p>great talk</p>", stored.NotesHTML)
	})

	t.Run("clearing notes clears the html", func(t *testing.T) {
		svc, _, _ := newSvc()

		_, err := svc.Review(ctx, "user-1", "effective-django", 3, 3, "something")
		require.NoError(t, err)

		got, err := svc.Review(ctx, "user-1", "effective-django", 3, 3, "")
		require.NoError(t, err)
		assert.Equal(t, "", got.Notes)
		assert.Equal(t, "", got.NotesHTML)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, _ := newSvc()

		_, err := svc.Review(ctx, "user-1", "effective-django", 6, -1, "")
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Fields, 2)
		assert.Equal(t, "talk_rating", ve.Fields[0].Field)
		assert.Equal(t, "speaker_rating", ve.Fields[1].Field)
	})

	t.Run("not owner", func(t *testing.T) {
		svc, _, _ := newSvc()

		_, err := svc.Review(ctx, "user-2", "effective-django", 4, 5, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("renderer failure", func(t *testing.T) {
		lists := newFakeListRepo()
		talks := newFakeTalkRepo()
		list := lists.add(domain.NewTalkList("user-1", "PyCon", now))
		talks.listOwners[list.ID] = "user-1"
		talks.add(domain.NewTalk(list.ID, "Effective Django", "Nathan", "517D", time.Date(2014, 4, 10, 9, 0, 0, 0, time.UTC), now))
		bang := errors.New("render failed")
		svc := NewTalkService(lists, talks, &fakeNotesRenderer{err: bang}, testWindow(), time.Second)

		_, err := svc.Review(ctx, "user-1", "effective-django", 4, 5, "notes")
		require.Error(t, err)
		assert.ErrorIs(t, err, bang)
	})
}
