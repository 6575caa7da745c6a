package flights

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/flightdesk/appctx"
)

const (
	// PropertyRepository selects the storage, "jdbc" stores flights in a SQL database, anything else keeps them in memory.
	PropertyRepository       = "repository"
	PropertyDatasourceURL    = "datasource.url"
	PropertyDatasourceDriver = "datasource.driver"

	RepositoryJDBC = "jdbc"
)

var useJDBC = appctx.PropertyEquals{Name: PropertyRepository, Value: RepositoryJDBC}

// Register registers flightdesk components in c. The CLI writes to out and logs with logger.
func Register(c *appctx.Context, out io.Writer, logger *slog.Logger) error {
	return errors.Join(
		c.Register(
			appctx.Instance[io.Writer](out),
			appctx.Instance(logger),
		),

		c.Register(appctx.Factory(func(ctx context.Context, env appctx.Environment, _ appctx.Resolver) (*Database, error) {
			return OpenDatabase(ctx, env)
		}).When(useJDBC)),

		c.RegisterComponentClass(appctx.Constructor1(func(ctx context.Context, db *Database) (Repository, error) {
			return NewSQLRepository(ctx, db)
		}), useJDBC),

		c.RegisterComponentClass(appctx.Constructor(func(ctx context.Context) (Repository, error) {
			return NewMemoryRepository(ctx)
		}), appctx.Negate(useJDBC)),

		c.RegisterComponentClass(appctx.Constructor2(NewService)),
		c.RegisterComponentClass(appctx.Injected[appctx.Application, CLI]()),

		c.AddBeforeRunListener(initializeRepository),
	)
}

func initializeRepository(ctx context.Context, r appctx.Resolver) error {
	repository, err := appctx.Resolve[Repository](ctx, r)
	if err != nil {
		return err
	}

	return repository.Initialize(ctx)
}
