package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

// propertiesGenKey holds a generation number mixed into every cached search
// key. Writes bump it so older cached searches are never read again.
const propertiesGenKey = "properties:gen"

type QueryService struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read paths. cache may be nil.
func NewQueryService(r domain.Repository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	return s.repo.GetUserWithEmail(ctx, email)
}

func (s *QueryService) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.GetUserWithID(ctx, id)
}

func (s *QueryService) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationRow, error) {
	return s.repo.GetAllReservations(ctx, guestID, limit)
}

// SearchProperties serves from cache when possible. Cache failures are logged
// and fall through to the store; store failures are returned as-is.
func (s *QueryService) SearchProperties(ctx context.Context, opts domain.SearchOptions, limit int) ([]domain.PropertyRow, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	if s.cache == nil {
		return s.repo.SearchProperties(ctx, opts, limit)
	}

	key, err := s.searchKey(ctx, opts, limit)
	if err != nil {
		// Options that cannot be encoded would all share one key.
		log.Warn().Err(err).Msg("search options not cacheable")
		return s.repo.SearchProperties(ctx, opts, limit)
	}
	var out []domain.PropertyRow
	if ok, err := s.cache.Get(ctx, key, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		// An undecodable entry would fail every read until it expires.
		_ = s.cache.Del(ctx, key)
	} else if ok {
		return out, nil
	}

	rows, err := s.repo.SearchProperties(ctx, opts, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, rows, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return rows, nil
}

func (s *QueryService) searchKey(ctx context.Context, opts domain.SearchOptions, limit int) (string, error) {
	b, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	var gen int64
	if _, err := s.cache.Get(ctx, propertiesGenKey, &gen); err != nil {
		log.Warn().Err(err).Msg("cache generation lookup failed")
	}
	sum := sha1.Sum(append(b, []byte(fmt.Sprintf("|%d", limit))...))
	return fmt.Sprintf("properties:%d:%s", gen, hex.EncodeToString(sum[:])), nil
}
