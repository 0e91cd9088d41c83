package repositories

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a repository implementation from the scheme of connStr:
// sqlite://path/to/file.db, sqlite://:memory: or postgresql://...
func Open(ctx context.Context, connStr string) (Repository, error) {
	scheme, rest, ok := strings.Cut(connStr, "://")
	if !ok {
		return nil, fmt.Errorf("connection string has no scheme: %q", connStr)
	}

	switch scheme {
	case "sqlite":
		if rest == "" {
			return nil, fmt.Errorf("sqlite connection string has no path")
		}
		return NewSQLiteRepository(ctx, rest)
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, connStr)
	default:
		return nil, fmt.Errorf("unknown database type %q", scheme)
	}
}
