package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lightbnb/internal/domain"
)

// SeedReport counts what a seed run stored and skipped.
type SeedReport struct {
	Users      int
	Properties int
	Reviews    int
	Skipped    int
}

// SeedService loads fixture records into the store. Users go first because
// properties reference them; reviews go last.
type SeedService struct {
	src     domain.FixtureSource
	cmd     *CommandService
	workers int64
}

func NewSeedService(src domain.FixtureSource, cmd *CommandService, workers int) *SeedService {
	if workers <= 0 {
		workers = 1
	}
	return &SeedService{src: src, cmd: cmd, workers: int64(workers)}
}

func (s *SeedService) Seed(ctx context.Context) (SeedReport, error) {
	var rep SeedReport
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	users, err := s.src.Users(ctx)
	if err != nil {
		return rep, err
	}
	props, err := s.src.Properties(ctx)
	if err != nil {
		return rep, err
	}
	reviews, err := s.src.Reviews(ctx)
	if err != nil {
		return rep, err
	}

	userIDs, err := s.fanOut(ctx, users, &rep, func(ctx context.Context, raw map[string]any, _ map[int64]int64) (int64, error) {
		u, err := s.cmd.AddUser(ctx, mapUser(raw))
		return u.ID, err
	}, nil)
	if err != nil {
		return rep, err
	}
	rep.Users = len(userIDs)

	propIDs, err := s.fanOut(ctx, props, &rep, func(ctx context.Context, raw map[string]any, owners map[int64]int64) (int64, error) {
		np := mapProperty(raw)
		owner, ok := owners[np.OwnerID]
		if !ok {
			return 0, fmt.Errorf("unknown owner %d", np.OwnerID)
		}
		np.OwnerID = owner
		p, err := s.cmd.AddProperty(ctx, np)
		return p.ID, err
	}, userIDs)
	if err != nil {
		return rep, err
	}
	rep.Properties = len(propIDs)

	for i, raw := range reviews {
		rv := mapReview(raw)
		guest, gok := userIDs[rv.GuestID]
		prop, pok := propIDs[rv.PropertyID]
		if !gok || !pok {
			log.Warn().Int("index", i).Int64("guest", rv.GuestID).Int64("property", rv.PropertyID).Msg("review references unknown fixture")
			rep.Skipped++
			continue
		}
		rv.GuestID, rv.PropertyID = guest, prop
		if _, err := s.cmd.AddReview(ctx, rv); err != nil {
			log.Warn().Int("index", i).Err(err).Msg("seed review failed")
			rep.Skipped++
			continue
		}
		rep.Reviews++
	}
	return rep, nil
}

type insertFn func(ctx context.Context, raw map[string]any, refs map[int64]int64) (int64, error)

// fanOut inserts records concurrently, bounded by the worker semaphore, and
// returns fixture id -> stored id for the ones that succeeded.
func (s *SeedService) fanOut(ctx context.Context, recs map[string]map[string]any, rep *SeedReport, fn insertFn, refs map[int64]int64) (map[int64]int64, error) {
	keys := make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[int64]int64, len(keys))
		sem = semaphore.NewWeighted(s.workers)
	)
	for _, k := range keys {
		fixtureID, err := parseFixtureID(k)
		if err != nil {
			log.Warn().Str("key", k).Msg("fixture key is not an integer id")
			mu.Lock()
			rep.Skipped++
			mu.Unlock()
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return ids, err
		}
		wg.Add(1)
		go func(fixtureID int64, raw map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			id, err := fn(ctx, raw, refs)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Int64("fixture_id", fixtureID).Err(err).Msg("seed record failed")
				rep.Skipped++
				return
			}
			ids[fixtureID] = id
		}(fixtureID, recs[k])
	}
	wg.Wait()
	return ids, nil
}

func parseFixtureID(k string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(k), 10, 64)
}
