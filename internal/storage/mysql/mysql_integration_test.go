//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"lightbnb/internal/domain"
	mysqlrepo "lightbnb/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint64(i int64) *int64     { return &i }
func pfloat(f float64) *float64 { return &f }

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=lightbnb",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		"root", hostPort, "lightbnb")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func mustExec(t *testing.T, db *sql.DB, q string, args ...any) {
	t.Helper()
	if _, err := db.Exec(q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}

// seedProperties bulk-inserts n properties for owner with cost base+i.
func seedProperties(t *testing.T, db *sql.DB, owner int64, n int, base int64) {
	t.Helper()
	const chunk = 500
	for off := 0; off < n; off += chunk {
		end := off + chunk
		if end > n {
			end = n
		}
		values := make([]string, 0, end-off)
		args := make([]any, 0, (end-off)*4)
		for i := off; i < end; i++ {
			values = append(values, "(?,?,?,?)")
			args = append(args, owner, fmt.Sprintf("Filler %d", i), base+int64(i), "Calgary")
		}
		mustExec(t, db, "INSERT INTO properties (owner_id, title, cost_per_night, city) VALUES "+strings.Join(values, ","), args...)
	}
}

func assertAscendingCost(t *testing.T, rows []domain.PropertyRow) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		if rows[i-1].CostPerNight > rows[i].CostPerNight {
			t.Fatalf("not sorted by cost at %d: %d > %d", i, rows[i-1].CostPerNight, rows[i].CostPerNight)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	t.Run("empty store search is empty, not an error", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{}, 10)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if rows == nil || len(rows) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", rows)
		}
	})

	// Arrange: owner 7 has six listings, owner 8 has three thousand.
	mustExec(t, db, `INSERT INTO users (id, name, email, password) VALUES
		(7, 'Seven', 'seven@example.com', 'pw'),
		(8, 'Eight', 'eight@example.com', 'pw'),
		(9, 'Guest', 'guest@example.com', 'pw')`)

	ownerCosts := []int64{9000, 3000, 12000, 5000, 7000, 15000}
	ownerCities := []string{"North Vancouver", "vancouver island", "Toronto", "Vancouver", "Montreal", "Ottawa"}
	ownerIDs := make([]int64, len(ownerCosts))
	for i, c := range ownerCosts {
		p, err := repo.AddProperty(ctx, domain.NewProperty{
			OwnerID:      7,
			Title:        fmt.Sprintf("Seven %d", i),
			CostPerNight: c,
			City:         pstr(ownerCities[i]),
			Country:      pstr("Canada"),
			Active:       true,
		})
		if err != nil {
			t.Fatalf("AddProperty: %v", err)
		}
		if p.ID == 0 || p.OwnerID != 7 || p.CostPerNight != c || p.City == nil || *p.City != ownerCities[i] {
			t.Fatalf("unexpected stored property: %+v", p)
		}
		ownerIDs[i] = p.ID
	}
	seedProperties(t, db, 8, 3000, 100)

	// Reviews: ownerIDs[0] averages 4.5, ownerIDs[1] averages 2.
	for _, rv := range []domain.Review{
		{GuestID: 9, PropertyID: ownerIDs[0], Rating: 5, Message: pstr("great")},
		{GuestID: 9, PropertyID: ownerIDs[0], Rating: 4},
		{GuestID: 9, PropertyID: ownerIDs[1], Rating: 2},
	} {
		if _, err := repo.AddReview(ctx, rv); err != nil {
			t.Fatalf("AddReview: %v", err)
		}
	}

	t.Run("owner filter honours limit and order", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{OwnerID: pint64(7)}, 5)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != 5 {
			t.Fatalf("expected 5 rows, got %d", len(rows))
		}
		for _, r := range rows {
			if r.OwnerID != 7 {
				t.Fatalf("owner mismatch: %+v", r)
			}
		}
		assertAscendingCost(t, rows)
		if rows[0].CostPerNight != 3000 {
			t.Fatalf("cheapest first, got %d", rows[0].CostPerNight)
		}
	})

	t.Run("no filters uses default limit", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{}, 0)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != domain.DefaultSearchLimit {
			t.Fatalf("expected %d rows, got %d", domain.DefaultSearchLimit, len(rows))
		}
		assertAscendingCost(t, rows)
	})

	t.Run("city match is case-sensitive substring", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{City: pstr("Van")}, 50)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		for _, r := range rows {
			if r.City == nil || !strings.Contains(*r.City, "Van") {
				t.Fatalf("city mismatch: %+v", r)
			}
		}
	})

	t.Run("price range bounds hold together", func(t *testing.T) {
		opts := domain.SearchOptions{
			OwnerID:              pint64(7),
			MinimumPricePerNight: pfloat(50),
			MaximumPricePerNight: pfloat(90),
		}
		rows, err := repo.SearchProperties(ctx, opts, 10)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows (5000, 7000, 9000), got %d", len(rows))
		}
		for _, r := range rows {
			if r.CostPerNight < 5000 || r.CostPerNight > 9000 {
				t.Fatalf("out of range: %d", r.CostPerNight)
			}
		}
		assertAscendingCost(t, rows)
	})

	t.Run("minimum rating excludes unreviewed properties", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{OwnerID: pint64(7), MinimumRating: pfloat(4)}, 10)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != 1 || rows[0].ID != ownerIDs[0] {
			t.Fatalf("expected only property %d, got %+v", ownerIDs[0], rows)
		}
		if rows[0].AverageRating == nil || *rows[0].AverageRating != 4.5 {
			t.Fatalf("average rating: %v", rows[0].AverageRating)
		}
	})

	t.Run("average rating is nil without reviews", func(t *testing.T) {
		rows, err := repo.SearchProperties(ctx, domain.SearchOptions{OwnerID: pint64(7), City: pstr("Toronto")}, 10)
		if err != nil {
			t.Fatalf("SearchProperties: %v", err)
		}
		if len(rows) != 1 || rows[0].AverageRating != nil {
			t.Fatalf("unexpected rows: %+v", rows)
		}
	})

	t.Run("users", func(t *testing.T) {
		u, err := repo.AddUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@example.com", Password: "hash"})
		if err != nil {
			t.Fatalf("AddUser: %v", err)
		}
		byEmail, err := repo.GetUserWithEmail(ctx, "ana@example.com")
		if err != nil || byEmail.ID != u.ID || byEmail.Name != "Ana" {
			t.Fatalf("GetUserWithEmail: %+v %v", byEmail, err)
		}
		byID, err := repo.GetUserWithID(ctx, u.ID)
		if err != nil || byID.Email != "ana@example.com" {
			t.Fatalf("GetUserWithID: %+v %v", byID, err)
		}
		if _, err := repo.GetUserWithID(ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		_, err = repo.AddUser(ctx, domain.NewUser{Name: "Dup", Email: "ana@example.com", Password: "x"})
		var qe *domain.QueryError
		if !errors.As(err, &qe) || !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("duplicate email should be a conflict QueryError, got %v", err)
		}
	})

	t.Run("past reservations only", func(t *testing.T) {
		mustExec(t, db, `INSERT INTO reservations (start_date, end_date, property_id, guest_id) VALUES
			('2020-03-01', '2020-03-05', ?, 9),
			('2019-01-10', '2019-01-12', ?, 9),
			(CURRENT_DATE + INTERVAL 10 DAY, CURRENT_DATE + INTERVAL 12 DAY, ?, 9)`,
			ownerIDs[0], ownerIDs[2], ownerIDs[1])

		rows, err := repo.GetAllReservations(ctx, 9, 10)
		if err != nil {
			t.Fatalf("GetAllReservations: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 past reservations, got %d", len(rows))
		}
		if !rows[0].Reservation.StartDate.Before(rows[1].Reservation.StartDate) {
			t.Fatalf("not ordered by start date: %+v", rows)
		}
		if rows[1].Property.ID != ownerIDs[0] || rows[1].AverageRating == nil || *rows[1].AverageRating != 4.5 {
			t.Fatalf("unexpected joined row: %+v", rows[1])
		}
	})

	t.Run("store failure surfaces as QueryError", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.SearchProperties(cctx, domain.SearchOptions{}, 10)
		var qe *domain.QueryError
		if !errors.As(err, &qe) || qe.Op != "search_properties" {
			t.Fatalf("expected QueryError, got %v", err)
		}
	})
}
