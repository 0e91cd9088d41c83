package repositories

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// execer runs a single migration statement batch.
type execer func(ctx context.Context, sql string) error

// runMigrations executes every .sql file in migrations in lexical order.
func runMigrations(ctx context.Context, migrations fs.FS, dir string, exec execer) error {
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migrationPath := dir + "/" + entry.Name()
		migration, err := fs.ReadFile(migrations, migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if err := exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return nil
}
