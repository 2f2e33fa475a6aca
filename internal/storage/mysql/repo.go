package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
	"lightbnb/internal/storage/search"
)

const storeName = "mysql"

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// propertyScan holds scan targets for search.PropertyColumns.
type propertyScan struct {
	p                                                             domain.Property
	desc, thumb, cover, country, street, city, province, postCode sql.NullString
}

func (s *propertyScan) dest() []any {
	return []any{
		&s.p.ID, &s.p.OwnerID, &s.p.Title, &s.desc, &s.thumb, &s.cover,
		&s.p.CostPerNight, &s.p.ParkingSpaces, &s.p.NumberOfBathrooms, &s.p.NumberOfBedrooms,
		&s.country, &s.street, &s.city, &s.province, &s.postCode, &s.p.Active,
	}
}

func (s *propertyScan) property() domain.Property {
	p := s.p
	p.Description = nullStr(s.desc)
	p.ThumbnailPhotoURL = nullStr(s.thumb)
	p.CoverPhotoURL = nullStr(s.cover)
	p.Country = nullStr(s.country)
	p.Street = nullStr(s.street)
	p.City = nullStr(s.city)
	p.Province = nullStr(s.province)
	p.PostCode = nullStr(s.postCode)
	return p
}

// Repo is the MySQL store. The *sql.DB pool is owned by the caller.
type Repo struct{ db *sql.DB }

var _ domain.Repository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// done records metrics and, for real failures, logs and wraps err.
func done(op string, start time.Time, err error) error {
	observability.ObserveStore(storeName, op, err, time.Since(start))
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	log.Error().Err(err).Str("store", storeName).Str("op", op).Msg("query failed")
	return domain.NewQueryError(op, classify(err))
}

// classify tags constraint violations so callers can branch with errors.Is.
func classify(err error) error {
	var me *gomysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case 1062: // ER_DUP_ENTRY
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case 1452: // ER_NO_REFERENCED_ROW_2
		return fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
	}
	return err
}

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserWithEmailSQL, email))
	return u, done("get_user_with_email", start, err)
}

func (r *Repo) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserWithIDSQL, id))
	return u, done("get_user_with_id", start, err)
}

func (r *Repo) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, insertUserSQL, nu.Name, nu.Email, nu.Password)
	if err != nil {
		return domain.User{}, done("add_user", start, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, done("add_user", start, err)
	}
	return domain.User{ID: id, Name: nu.Name, Email: nu.Email, Password: nu.Password}, done("add_user", start, nil)
}

func (r *Repo) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationRow, error) {
	start := time.Now()
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	rows, err := r.db.QueryContext(ctx, getAllReservationsSQL, guestID, limit)
	if err != nil {
		return nil, done("get_all_reservations", start, err)
	}
	defer rows.Close()

	out := make([]domain.ReservationRow, 0, limit)
	for rows.Next() {
		var (
			rr  domain.ReservationRow
			ps  propertyScan
			avg sql.NullFloat64
		)
		dest := append([]any{
			&rr.Reservation.ID, &rr.Reservation.StartDate, &rr.Reservation.EndDate,
			&rr.Reservation.PropertyID, &rr.Reservation.GuestID,
		}, ps.dest()...)
		dest = append(dest, &avg)
		if err := rows.Scan(dest...); err != nil {
			return nil, done("get_all_reservations", start, err)
		}
		rr.Property = ps.property()
		rr.AverageRating = nullF64(avg)
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, done("get_all_reservations", start, err)
	}
	return out, done("get_all_reservations", start, nil)
}

// SearchProperties runs the filtered property search. No matches is an empty
// slice and a nil error; a store failure is a *domain.QueryError.
func (r *Repo) SearchProperties(ctx context.Context, opts domain.SearchOptions, limit int) ([]domain.PropertyRow, error) {
	start := time.Now()
	q := search.Build(search.MySQL, opts, limit)
	log.Debug().Str("store", storeName).Str("sql", q.SQL).Interface("args", q.Args).Msg("property search")

	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, done("search_properties", start, err)
	}
	defer rows.Close()

	out := make([]domain.PropertyRow, 0)
	for rows.Next() {
		var (
			ps  propertyScan
			avg sql.NullFloat64
		)
		if err := rows.Scan(append(ps.dest(), &avg)...); err != nil {
			return nil, done("search_properties", start, err)
		}
		out = append(out, domain.PropertyRow{Property: ps.property(), AverageRating: nullF64(avg)})
	}
	if err := rows.Err(); err != nil {
		return nil, done("search_properties", start, err)
	}
	return out, done("search_properties", start, nil)
}

func (r *Repo) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, insertPropertySQL,
		np.OwnerID,
		np.Title,
		valStr(np.Description),
		valStr(np.ThumbnailPhotoURL),
		valStr(np.CoverPhotoURL),
		np.CostPerNight,
		np.ParkingSpaces,
		np.NumberOfBathrooms,
		np.NumberOfBedrooms,
		valStr(np.Country),
		valStr(np.Street),
		valStr(np.City),
		valStr(np.Province),
		valStr(np.PostCode),
		np.Active,
	)
	if err != nil {
		return domain.Property{}, done("add_property", start, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Property{}, done("add_property", start, err)
	}

	var ps propertyScan
	if err := r.db.QueryRowContext(ctx, getPropertySQL, id).Scan(ps.dest()...); err != nil {
		return domain.Property{}, done("add_property", start, err)
	}
	return ps.property(), done("add_property", start, nil)
}

func (r *Repo) AddReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.GuestID,
		rv.PropertyID,
		valInt64(rv.ReservationID),
		rv.Rating,
		valStr(rv.Message),
	)
	if err != nil {
		return domain.Review{}, done("add_review", start, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, done("add_review", start, err)
	}
	rv.ID = id
	return rv, done("add_review", start, nil)
}
