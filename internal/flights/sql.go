package flights

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flightdesk/appctx"
)

const uniqueViolation = "23505"

// SQLRepository stores flights in a SQL database.
type SQLRepository struct {
	db *Database
}

func NewSQLRepository(_ context.Context, db *Database) (*SQLRepository, error) {
	return &SQLRepository{db: db}, nil
}

// Initialize creates the flights table if it does not exist.
func (r *SQLRepository) Initialize(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS flights (
		number      TEXT PRIMARY KEY,
		origin      TEXT NOT NULL,
		destination TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating flights table: %w", err)
	}

	return nil
}

func (r *SQLRepository) Save(ctx context.Context, flight Flight) error {
	query := r.db.Rebind(`INSERT INTO flights (number, origin, destination) VALUES (?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, flight.Number, flight.Origin, flight.Destination)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrFlightExists, flight.Number)
	}

	return err
}

func (r *SQLRepository) Find(ctx context.Context, number string) (Flight, error) {
	query := r.db.Rebind(`SELECT number, origin, destination FROM flights WHERE number = ?`)

	var flight Flight

	err := r.db.GetContext(ctx, &flight, query, number)
	if errors.Is(err, sql.ErrNoRows) {
		return Flight{}, fmt.Errorf("%w: %s", ErrFlightNotFound, number)
	}

	return flight, err
}

func (r *SQLRepository) List(ctx context.Context) ([]Flight, error) {
	var flights []Flight

	err := r.db.SelectContext(ctx, &flights, `SELECT number, origin, destination FROM flights ORDER BY number`)
	if err != nil {
		return nil, err
	}

	return flights, nil
}

// Database is the connection pool shared by SQL backed components.
type Database struct {
	*sqlx.DB
}

// OpenDatabase opens a connection pool to the data source configured with the datasource.url property.
// The driver is taken from datasource.driver and defaults to postgres. No connection is made until
// the first query.
func OpenDatabase(_ context.Context, env appctx.Environment) (*Database, error) {
	url, ok := env.Get(PropertyDatasourceURL)
	if !ok || url == "" {
		return nil, fmt.Errorf("property %s is not set", PropertyDatasourceURL)
	}

	driver, ok := env.Get(PropertyDatasourceDriver)
	if !ok {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, url)
	if err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

func (d *Database) HealthCheck(ctx context.Context) error {
	return d.PingContext(ctx)
}

func (d *Database) Shutdown(_ context.Context) error {
	return d.Close()
}
