package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "PyCon", want: "pycon"},
		{name: "spaces become hyphens", in: "To Attend", want: "to-attend"},
		{name: "punctuation collapses", in: "Django's ORM, Revisited!", want: "django-s-orm-revisited"},
		{name: "leading and trailing stripped", in: "  Hello  ", want: "hello"},
		{name: "runs collapse to one hyphen", in: "a -- b", want: "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			// Slugifying a slug changes nothing.
			assert.Equal(t, got, Slugify(got))
		})
	}
}

func TestNewTalkList(t *testing.T) {
	now := time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC)

	list := NewTalkList("user-1", "PyCon", now)

	assert.Equal(t, "user-1", list.OwnerID)
	assert.Equal(t, "PyCon", list.Name)
	assert.Equal(t, "pycon", list.Slug)
	assert.Equal(t, "/lists/d/pycon/", list.DetailPath())
	assert.Equal(t, now, list.CreatedAt)
	assert.Equal(t, now, list.UpdatedAt)
}

func TestTalkList_Rename(t *testing.T) {
	created := time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC)
	renamed := created.Add(48 * time.Hour)
	list := NewTalkList("user-1", "PyCon", created)

	list.Rename("Must See Talks", renamed)

	assert.Equal(t, "Must See Talks", list.Name)
	assert.Equal(t, "must-see-talks", list.Slug)
	assert.Equal(t, "/lists/d/must-see-talks/", list.DetailPath())
	assert.Equal(t, created, list.CreatedAt)
	assert.Equal(t, renamed, list.UpdatedAt)
}
