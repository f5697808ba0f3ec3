package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
)

const (
	defaultRecentEventLimit  = 50
	defaultLeaderboardLimit  = 100
	maxLeaderboardQueryLimit = 500
)

// CharacterStatus bundles a character with its most recent events.
type CharacterStatus struct {
	Character character.Character
	Events    []character.Event
}

// ContestQueryService serves the read side of the contest: character status
// and the score leaderboard.
type ContestQueryService struct {
	characterRepo character.Repository
}

func NewContestQueryService(characterRepo character.Repository) *ContestQueryService {
	return &ContestQueryService{characterRepo: characterRepo}
}

func (s *ContestQueryService) GetCharacterStatus(ctx context.Context, name string) (CharacterStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestQueryService.GetCharacterStatus")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return CharacterStatus{}, fmt.Errorf("%w: character name is required", ErrInvalidInput)
	}

	char, found, err := s.characterRepo.GetByName(ctx, name)
	if err != nil {
		return CharacterStatus{}, fmt.Errorf("get character %s: %w", name, err)
	}
	if !found {
		return CharacterStatus{}, fmt.Errorf("%w: character %s", ErrNotFound, name)
	}

	events, err := s.characterRepo.ListEventsByCharacter(ctx, char.ID, defaultRecentEventLimit)
	if err != nil {
		return CharacterStatus{}, fmt.Errorf("list events for character %s: %w", name, err)
	}

	return CharacterStatus{Character: char, Events: events}, nil
}

func (s *ContestQueryService) Leaderboard(ctx context.Context, limit int) ([]character.Character, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestQueryService.Leaderboard")
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardQueryLimit {
		limit = maxLeaderboardQueryLimit
	}

	items, err := s.characterRepo.ListRanked(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ranked characters: %w", err)
	}
	return items, nil
}
