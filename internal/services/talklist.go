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

const maxNameLen = 255

type talkListService struct {
	lists          domain.TalkListRepository
	talks          domain.TalkRepository
	contextTimeout time.Duration
}

// NewTalkListService creates a TalkListService backed by the given repositories.
func NewTalkListService(lists domain.TalkListRepository, talks domain.TalkRepository, timeout time.Duration) domain.TalkListService {
	return &talkListService{
		lists:          lists,
		talks:          talks,
		contextTimeout: timeout,
	}
}

// validateName checks the 1-255 character rule shared by lists and talks.
func validateName(name string) *domain.ValidationError {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return domain.NewValidationError("name", fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	return nil
}

func (s *talkListService) Create(ctx context.Context, ownerID, name string) (*domain.TalkList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if ve := validateName(name); ve != nil {
		return nil, ve
	}

	list := domain.NewTalkList(ownerID, name, time.Now().UTC())
	if err := s.lists.Create(ctx, list); err != nil {
		if errors.Is(err, domain.ErrDuplicateListName) {
			return nil, domain.NewValidationError("name", domain.ErrDuplicateListName.Error())
		}
		return nil, fmt.Errorf("create list: %w", err)
	}
	return list, nil
}

func (s *talkListService) List(ctx context.Context, ownerID string) ([]*domain.TalkList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	lists, err := s.lists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list talk lists: %w", err)
	}
	if lists == nil {
		lists = []*domain.TalkList{}
	}
	return lists, nil
}

func (s *talkListService) Detail(ctx context.Context, ownerID, slug string) (*domain.TalkList, []*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.lists.GetBySlug(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get list: %w", err)
	}
	talks, err := s.talks.ListByListID(ctx, list.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list talks: %w", err)
	}
	if talks == nil {
		talks = []*domain.Talk{}
	}
	return list, talks, nil
}

func (s *talkListService) Rename(ctx context.Context, ownerID, slug, name string) (*domain.TalkList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if ve := validateName(name); ve != nil {
		return nil, ve
	}

	list, err := s.lists.GetBySlug(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	list.Rename(name, time.Now().UTC())
	if err := s.lists.Update(ctx, list); err != nil {
		if errors.Is(err, domain.ErrDuplicateListName) {
			return nil, domain.NewValidationError("name", domain.ErrDuplicateListName.Error())
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update list: %w", err)
	}
	return list, nil
}

func (s *talkListService) Delete(ctx context.Context, ownerID, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.lists.GetBySlug(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get list: %w", err)
	}
	if err := s.lists.Delete(ctx, ownerID, list.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

func (s *talkListService) RemoveTalk(ctx context.Context, ownerID, listID, talkID string) (*domain.TalkRemoval, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.lists.GetByID(ctx, ownerID, listID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	talk, err := s.talks.GetByIDInList(ctx, list.ID, talkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk: %w", err)
	}

	// The removal notice and redirect target must be captured before the
	// delete invalidates the row.
	removal := &domain.TalkRemoval{
		TalkName:   talk.Name,
		ListName:   list.Name,
		Message:    fmt.Sprintf("%s was removed from %s", talk.Name, list.Name),
		RedirectTo: list.DetailPath(),
	}

	if err := s.talks.Delete(ctx, talk.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete talk: %w", err)
	}
	return removal, nil
}
