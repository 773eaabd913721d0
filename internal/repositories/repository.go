package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
)

// NotFound returns a 404 HTTP error with a descriptive message
func NotFound(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Repository holds the connection every table repository shares. Queries run
// on the transaction bound to ctx when there is one.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) DB() database.DB {
	return r.db
}

func (r *Repository) q(ctx context.Context) database.Querier {
	return r.db.Executor(ctx)
}

// fail logs err and replaces it with a generic 500 so driver details stay out
// of responses. HTTP errors pass through.
func (r *Repository) fail(ctx context.Context, err error, action string, fields map[string]any) error {
	if httperror.IsHTTPError(err) {
		return err
	}
	r.logger.WithContext(ctx).WithError(err).WithFields(fields).Errorf("failed to %s", action)
	return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to %s", action)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// affected reports whether a write touched any row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
