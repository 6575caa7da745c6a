package flights_test

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdesk/appctx/internal/flights"
)

func TestSQLRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates the table", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS flights").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.Initialize(t.Context()))
	})

	t.Run("inserts flights with postgres placeholders", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO flights (number, origin, destination) VALUES ($1, $2, $3)`)).
			WithArgs("LH400", "FRA", "JFK").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Save(t.Context(), flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"}))
	})

	t.Run("maps unique violations to ErrFlightExists", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectExec("INSERT INTO flights").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Save(t.Context(), flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"})
		assert.ErrorIs(t, err, flights.ErrFlightExists)
	})

	t.Run("finds a flight", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, origin, destination FROM flights WHERE number = $1`)).
			WithArgs("LH400").
			WillReturnRows(sqlmock.NewRows([]string{"number", "origin", "destination"}).AddRow("LH400", "FRA", "JFK"))

		flight, err := repo.Find(t.Context(), "LH400")
		require.NoError(t, err)
		assert.Equal(t, flights.Flight{Number: "LH400", Origin: "FRA", Destination: "JFK"}, flight)
	})

	t.Run("returns ErrFlightNotFound when there are no rows", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectQuery("SELECT number, origin, destination FROM flights WHERE").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Find(t.Context(), "XX1")
		assert.ErrorIs(t, err, flights.ErrFlightNotFound)
	})

	t.Run("lists flights", func(t *testing.T) {
		t.Parallel()

		repo, mock := newSQLRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, origin, destination FROM flights ORDER BY number`)).
			WillReturnRows(sqlmock.NewRows([]string{"number", "origin", "destination"}).
				AddRow("BA117", "LHR", "JFK").
				AddRow("LH400", "FRA", "JFK"))

		list, err := repo.List(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []flights.Flight{
			{Number: "BA117", Origin: "LHR", Destination: "JFK"},
			{Number: "LH400", Origin: "FRA", Destination: "JFK"},
		}, list)
	})
}

func TestDatabase(t *testing.T) {
	t.Parallel()

	t.Run("pings on health check and closes on shutdown", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)

		database := &flights.Database{DB: sqlx.NewDb(db, "postgres")}

		mock.ExpectPing()
		mock.ExpectClose()

		require.NoError(t, database.HealthCheck(t.Context()))
		require.NoError(t, database.Shutdown(t.Context()))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func newSQLRepository(t *testing.T) (*flights.SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	repo, err := flights.NewSQLRepository(t.Context(), &flights.Database{DB: sqlx.NewDb(db, "postgres")})
	require.NoError(t, err)

	return repo, mock
}
