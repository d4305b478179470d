package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Connect opens an instrumented connection pool and verifies it.
func Connect(ctx context.Context, dsn string, disablePreparedBinary bool) (*sqlx.DB, error) {
	if disablePreparedBinary {
		var err error
		dsn, err = withQueryParam(dsn, "disable_prepared_binary_result", "yes")
		if err != nil {
			return nil, fmt.Errorf("adjust dsn: %w", err)
		}
	}

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func withQueryParam(dsn, key, value string) (string, error) {
	if !strings.Contains(dsn, "://") {
		// Key/value DSN form.
		return dsn + " " + key + "=" + value, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
