package domain

import (
	"context"
	"time"
)

// TalkList is a user-owned named collection of talks. (owner, name) is
// unique: a user cannot have two lists with the same name.
type TalkList struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	TalkCount int       `json:"talk_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTalkList returns a TalkList for the given owner with the slug derived
// from name. ID is set by the repository on create.
func NewTalkList(ownerID, name string, now time.Time) *TalkList {
	return &TalkList{
		OwnerID:   ownerID,
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename updates the name and recomputes the slug.
func (l *TalkList) Rename(name string, now time.Time) {
	l.Name = name
	l.Slug = Slugify(name)
	l.UpdatedAt = now
}

// DetailPath is the canonical detail location for the list.
func (l *TalkList) DetailPath() string {
	return "/lists/d/" + l.Slug + "/"
}

// TalkRemoval describes a completed talk removal. Message and RedirectTo are
// computed from the talk and its parent list before the row is deleted.
type TalkRemoval struct {
	TalkName   string `json:"talk_name"`
	ListName   string `json:"list_name"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to"`
}

// TalkListRepository defines storage for talk lists. Every method takes the
// owner's ID and filters on it; rows belonging to other users behave as
// absent (ErrNotFound).
type TalkListRepository interface {
	Create(ctx context.Context, list *TalkList) error
	GetByID(ctx context.Context, ownerID, id string) (*TalkList, error)
	GetBySlug(ctx context.Context, ownerID, slug string) (*TalkList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*TalkList, error)
	Update(ctx context.Context, list *TalkList) error
	Delete(ctx context.Context, ownerID, id string) error
}

// TalkListService defines the business logic for talk lists.
type TalkListService interface {
	Create(ctx context.Context, ownerID, name string) (*TalkList, error)
	List(ctx context.Context, ownerID string) ([]*TalkList, error)
	Detail(ctx context.Context, ownerID, slug string) (*TalkList, []*Talk, error)
	Rename(ctx context.Context, ownerID, slug, name string) (*TalkList, error)
	Delete(ctx context.Context, ownerID, slug string) error
	RemoveTalk(ctx context.Context, ownerID, listID, talkID string) (*TalkRemoval, error)
}
