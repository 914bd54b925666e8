package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kennethlove/practice-pycon/internal/domain"
)

// whenOutsideWindowMsg is the field error shown when a talk's scheduled time
// falls outside the conference.
const whenOutsideWindowMsg = "'when' is outside of PyCon."

type talkService struct {
	lists          domain.TalkListRepository
	talks          domain.TalkRepository
	renderer       domain.NotesRenderer
	window         domain.Window
	contextTimeout time.Duration
}

// NewTalkService creates a TalkService. The window bounds the accepted values
// for a talk's scheduled time; both bounds are exclusive.
func NewTalkService(lists domain.TalkListRepository, talks domain.TalkRepository, renderer domain.NotesRenderer, window domain.Window, timeout time.Duration) domain.TalkService {
	return &talkService{
		lists:          lists,
		talks:          talks,
		renderer:       renderer,
		window:         window,
		contextTimeout: timeout,
	}
}

// validateTalkInput collects every field failure at once so the submitter
// sees all of them on a single re-render.
func (s *talkService) validateTalkInput(in domain.TalkInput) *domain.ValidationError {
	ve := &domain.ValidationError{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		ve.Add("name", "name is required")
	} else if utf8.RuneCountInString(name) > maxNameLen {
		ve.Add("name", fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	host := strings.TrimSpace(in.Host)
	if host == "" {
		ve.Add("host", "host is required")
	} else if utf8.RuneCountInString(host) > maxNameLen {
		ve.Add("host", fmt.Sprintf("host must be at most %d characters", maxNameLen))
	}
	if in.When.IsZero() {
		ve.Add("when", "when is required")
	} else if !s.window.Contains(in.When) {
		ve.Add("when", whenOutsideWindowMsg)
	}
	if !domain.ValidRoom(in.Room) {
		ve.Add("room", fmt.Sprintf("room must be one of %s", strings.Join(domain.Rooms, ", ")))
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

func (s *talkService) Add(ctx context.Context, ownerID, listSlug string, in domain.TalkInput) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.lists.GetBySlug(ctx, ownerID, listSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	if ve := s.validateTalkInput(in); ve != nil {
		return nil, ve
	}

	talk := domain.NewTalk(list.ID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Host), in.Room, in.When.UTC(), time.Now().UTC())
	if err := s.talks.Create(ctx, talk); err != nil {
		if errors.Is(err, domain.ErrDuplicateTalkName) {
			return nil, domain.NewValidationError("name", domain.ErrDuplicateTalkName.Error())
		}
		return nil, fmt.Errorf("create talk: %w", err)
	}
	return talk, nil
}

func (s *talkService) Detail(ctx context.Context, ownerID, slug string) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	talk, err := s.talks.GetBySlugForOwner(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk: %w", err)
	}
	return talk, nil
}

func (s *talkService) Review(ctx context.Context, ownerID, slug string, talkRating, speakerRating int, notes string) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ve := &domain.ValidationError{}
	if talkRating < domain.MinRating || talkRating > domain.MaxRating {
		ve.Add("talk_rating", fmt.Sprintf("talk_rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if speakerRating < domain.MinRating || speakerRating > domain.MaxRating {
		ve.Add("speaker_rating", fmt.Sprintf("speaker_rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if !ve.Empty() {
		return nil, ve
	}

	talk, err := s.talks.GetBySlugForOwner(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk: %w", err)
	}

	// notes_html is recomputed from notes on every save, never stored from
	// user input.
	html, err := s.renderer.Render(notes)
	if err != nil {
		return nil, fmt.Errorf("render notes: %w", err)
	}

	talk.TalkRating = talkRating
	talk.SpeakerRating = speakerRating
	talk.Notes = notes
	talk.NotesHTML = html
	talk.UpdatedAt = time.Now().UTC()

	if err := s.talks.Update(ctx, talk); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update talk: %w", err)
	}
	return talk, nil
}
