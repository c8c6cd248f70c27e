package database

import (
	"context"
	"database/sql"
	"fmt"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		role VARCHAR(20) DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		status VARCHAR(20) DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'completed')),
		priority VARCHAR(20) DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
		user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
}

// Migrate creates the users and tasks tables and their indexes. Safe to run
// repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.Migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts the default admin and test accounts plus sample tasks for the
// test account, skipping any that already exist.
func Seed(ctx context.Context, db *sql.DB) error {
	adminID, err := seedUser(ctx, db, "admin@example.com", "admin123", "Admin", "User", model.RoleAdmin)
	if err != nil {
		return err
	}
	_ = adminID

	userID, err := seedUser(ctx, db, "user@example.com", "user123", "Test", "User", model.RoleUser)
	if err != nil {
		return err
	}
	if userID == 0 {
		return nil // test user already existed, keep their tasks as-is
	}

	sampleTasks := []struct {
		title, description, status, priority string
	}{
		{"Complete project assignment", "Build a scalable REST API with authentication", "pending", "high"},
		{"Review code documentation", "Update API documentation and README", "in_progress", "medium"},
		{"Setup deployment pipeline", "Configure Docker and CI/CD", "pending", "low"},
	}
	for _, t := range sampleTasks {
		_, err := db.ExecContext(ctx,
			`INSERT INTO tasks (title, description, status, priority, user_id) VALUES ($1, $2, $3, $4, $5)`,
			t.title, t.description, t.status, t.priority, userID)
		if err != nil {
			return fmt.Errorf("database.Seed tasks: %w", err)
		}
	}
	return nil
}

// seedUser returns the new user's id, or 0 if the email was already present.
func seedUser(ctx context.Context, db *sql.DB, email, password, firstName, lastName, role string) (int64, error) {
	var existing int64
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&existing)
	if err == nil {
		return 0, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("database.seedUser lookup: %w", err)
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("database.seedUser hash: %w", err)
	}

	var id int64
	err = db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, first_name, last_name, role) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		email, hashed, firstName, lastName, role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("database.seedUser insert: %w", err)
	}
	return id, nil
}
