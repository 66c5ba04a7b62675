// Package client bootstraps the CLI's local SQLite database: it opens the
// file, applies the embedded goose migrations and hands out repositories.
//
// See Also
//
//   - DB helpers:   InitDatabase, RunMigrations
//   - Repositories: NewRepositories
package client
