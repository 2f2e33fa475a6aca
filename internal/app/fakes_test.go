package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"lightbnb/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu sync.Mutex

	users       []domain.User
	properties  []domain.Property
	reviews     []domain.Review
	rows        []domain.PropertyRow
	searchCalls int
	searchErr   error
	addUserErr  func(domain.NewUser) error
}

func (f *fakeRepo) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeRepo) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeRepo) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	if f.addUserErr != nil {
		if err := f.addUserErr(nu); err != nil {
			return domain.User{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := domain.User{ID: int64(len(f.users) + 100), Name: nu.Name, Email: nu.Email, Password: nu.Password}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeRepo) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationRow, error) {
	return []domain.ReservationRow{}, nil
}

func (f *fakeRepo) SearchProperties(ctx context.Context, opts domain.SearchOptions, limit int) ([]domain.PropertyRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := make([]domain.PropertyRow, 0, len(f.rows))
	out = append(out, f.rows...)
	return out, nil
}

func (f *fakeRepo) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Property{
		ID:           int64(len(f.properties) + 500),
		OwnerID:      np.OwnerID,
		Title:        np.Title,
		CostPerNight: np.CostPerNight,
		City:         np.City,
		Active:       np.Active,
	}
	f.properties = append(f.properties, p)
	return p, nil
}

func (f *fakeRepo) AddReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, r)
	return r, nil
}

// fakeCache keeps JSON like the redis adapter, so cached values never alias
// the repo's slices.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	getErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
