package db

import (
	"context"
	"fmt"
)

// Column layout matches the table created by earlier deployments, so an
// existing table is adopted as-is.
const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	name VARCHAR(255),
	email VARCHAR(255),
	address TEXT,
	phonenumber VARCHAR(255),
	password VARCHAR(255)
)`

// EnsureSchema creates the users table when it is missing. It is a single
// IF NOT EXISTS statement, so repeated or concurrent calls are harmless.
func EnsureSchema(ctx context.Context, database Database) error {
	if err := database.GetDB().WithContext(ctx).Exec(createUsersTable).Error; err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}
