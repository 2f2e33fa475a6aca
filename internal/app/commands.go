package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

type CommandService struct {
	repo  domain.Repository
	cache domain.Cache
}

// NewCommandService wires the write paths. cache may be nil.
func NewCommandService(r domain.Repository, c domain.Cache) *CommandService {
	return &CommandService{repo: r, cache: c}
}

func (s *CommandService) AddUser(ctx context.Context, u domain.NewUser) (domain.User, error) {
	return s.repo.AddUser(ctx, u)
}

func (s *CommandService) AddProperty(ctx context.Context, p domain.NewProperty) (domain.Property, error) {
	out, err := s.repo.AddProperty(ctx, p)
	if err != nil {
		return domain.Property{}, err
	}
	s.invalidateSearches(ctx)
	return out, nil
}

// AddReview changes average ratings, so cached searches go stale too.
func (s *CommandService) AddReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	out, err := s.repo.AddReview(ctx, r)
	if err != nil {
		return domain.Review{}, err
	}
	s.invalidateSearches(ctx)
	return out, nil
}

func (s *CommandService) invalidateSearches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// No TTL: the generation must outlive every search entry.
	if err := s.cache.Set(ctx, propertiesGenKey, time.Now().UnixNano(), 0); err != nil {
		log.Warn().Err(err).Msg("bump search cache generation failed")
	}
}
