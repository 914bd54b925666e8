package domain

import (
	"context"
	"time"
)

// Rooms are the fixed set of session rooms at the venue.
var Rooms = []string{"517D", "517C", "517AB", "520", "710A"}

// ValidRoom reports whether room is one of the known room identifiers.
func ValidRoom(room string) bool {
	for _, r := range Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Rating bounds for talk and speaker star ratings. Zero doubles as "not yet
// rated"; that ambiguity is kept for compatibility with existing data.
const (
	MinRating = 0
	MaxRating = 5
)

// Window is the acceptance window for a talk's scheduled time. Both bounds
// are exclusive: a talk exactly at Start or End is rejected.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls strictly inside the window.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && t.Before(w.End)
}

// Talk is a single scheduled session on a talk list. (list, name) is unique
// within a list.
type Talk struct {
	ID            string    `json:"id"`
	TalkListID    string    `json:"talk_list_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Host          string    `json:"host"`
	When          time.Time `json:"when"`
	Room          string    `json:"room"`
	TalkRating    int       `json:"talk_rating"`
	SpeakerRating int       `json:"speaker_rating"`
	Notes         string    `json:"notes"`
	NotesHTML     string    `json:"notes_html"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTalk returns a Talk on the given list with the slug derived from name.
// ID is set by the repository on create.
func NewTalk(listID, name, host, room string, when, now time.Time) *Talk {
	return &Talk{
		TalkListID: listID,
		Name:       name,
		Slug:       Slugify(name),
		Host:       host,
		When:       when,
		Room:       room,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// OverallRating is the truncating integer average of the talk and speaker
// ratings when both have been given; otherwise 0. A 0 result is
// indistinguishable from "not yet rated".
func (t *Talk) OverallRating() int {
	if t.TalkRating != 0 && t.SpeakerRating != 0 {
		return (t.TalkRating + t.SpeakerRating) / 2
	}
	return 0
}

// DetailPath is the canonical detail location for the talk.
func (t *Talk) DetailPath() string {
	return "/talks/d/" + t.Slug + "/"
}

// NotesRenderer renders markdown notes to safe HTML. Invoked on every save so
// notes_html never drifts from notes.
type NotesRenderer interface {
	Render(notes string) (string, error)
}

// TalkRepository defines storage for talks. Owner-scoped lookups treat talks
// outside the owner's list hierarchy as absent (ErrNotFound).
type TalkRepository interface {
	Create(ctx context.Context, talk *Talk) error
	GetByIDInList(ctx context.Context, listID, id string) (*Talk, error)
	GetBySlugForOwner(ctx context.Context, ownerID, slug string) (*Talk, error)
	ListByListID(ctx context.Context, listID string) ([]*Talk, error)
	Update(ctx context.Context, talk *Talk) error
	Delete(ctx context.Context, id string) error
}

// TalkInput is the submitted form state for adding a talk to a list.
type TalkInput struct {
	Name string
	Host string
	When time.Time
	Room string
}

// TalkService defines the business logic for talks.
type TalkService interface {
	Add(ctx context.Context, ownerID, listSlug string, in TalkInput) (*Talk, error)
	Detail(ctx context.Context, ownerID, slug string) (*Talk, error)
	Review(ctx context.Context, ownerID, slug string, talkRating, speakerRating int, notes string) (*Talk, error)
}
