// Package postgres is the PostgreSQL store, built on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
	"lightbnb/internal/storage/search"
)

const storeName = "postgres"

var _ domain.Repository = (*Repo)(nil)

type Repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func done(op string, start time.Time, err error) error {
	observability.ObserveStore(storeName, op, err, time.Since(start))
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	log.Error().Err(err).Str("store", storeName).Str("op", op).Msg("query failed")
	return domain.NewQueryError(op, classify(err))
}

func classify(err error) error {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return err
	}
	switch pe.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
	}
	return err
}

// propertyDest returns scan targets for search.PropertyColumns. pgx writes
// NULL into pointer fields as nil.
func propertyDest(p *domain.Property) []any {
	return []any{
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.ThumbnailPhotoURL, &p.CoverPhotoURL,
		&p.CostPerNight, &p.ParkingSpaces, &p.NumberOfBathrooms, &p.NumberOfBedrooms,
		&p.Country, &p.Street, &p.City, &p.Province, &p.PostCode, &p.Active,
	}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, getUserWithEmailSQL, email))
	return u, done("get_user_with_email", start, err)
}

func (r *Repo) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, getUserWithIDSQL, id))
	return u, done("get_user_with_id", start, err)
}

func (r *Repo) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, insertUserSQL, nu.Name, nu.Email, nu.Password))
	return u, done("add_user", start, err)
}

func (r *Repo) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationRow, error) {
	start := time.Now()
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	rows, err := r.pool.Query(ctx, getAllReservationsSQL, guestID, limit)
	if err != nil {
		return nil, done("get_all_reservations", start, err)
	}
	defer rows.Close()

	out := make([]domain.ReservationRow, 0, limit)
	for rows.Next() {
		var rr domain.ReservationRow
		dest := append([]any{
			&rr.Reservation.ID, &rr.Reservation.StartDate, &rr.Reservation.EndDate,
			&rr.Reservation.PropertyID, &rr.Reservation.GuestID,
		}, propertyDest(&rr.Property)...)
		dest = append(dest, &rr.AverageRating)
		if err := rows.Scan(dest...); err != nil {
			return nil, done("get_all_reservations", start, err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, done("get_all_reservations", start, err)
	}
	return out, done("get_all_reservations", start, nil)
}

func (r *Repo) SearchProperties(ctx context.Context, opts domain.SearchOptions, limit int) ([]domain.PropertyRow, error) {
	start := time.Now()
	q := search.Build(search.Postgres, opts, limit)
	log.Debug().Str("store", storeName).Str("sql", q.SQL).Interface("args", q.Args).Msg("property search")

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, done("search_properties", start, err)
	}
	defer rows.Close()

	out := make([]domain.PropertyRow, 0)
	for rows.Next() {
		var pr domain.PropertyRow
		if err := rows.Scan(append(propertyDest(&pr.Property), &pr.AverageRating)...); err != nil {
			return nil, done("search_properties", start, err)
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, done("search_properties", start, err)
	}
	return out, done("search_properties", start, nil)
}

func (r *Repo) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	start := time.Now()
	var p domain.Property
	err := r.pool.QueryRow(ctx, insertPropertySQL,
		np.OwnerID,
		np.Title,
		np.Description,
		np.ThumbnailPhotoURL,
		np.CoverPhotoURL,
		np.CostPerNight,
		np.ParkingSpaces,
		np.NumberOfBathrooms,
		np.NumberOfBedrooms,
		np.Country,
		np.Street,
		np.City,
		np.Province,
		np.PostCode,
		np.Active,
	).Scan(propertyDest(&p)...)
	return p, done("add_property", start, err)
}

func (r *Repo) AddReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	start := time.Now()
	err := r.pool.QueryRow(ctx, insertReviewSQL,
		rv.GuestID,
		rv.PropertyID,
		rv.ReservationID,
		rv.Rating,
		rv.Message,
	).Scan(&rv.ID)
	return rv, done("add_review", start, err)
}
