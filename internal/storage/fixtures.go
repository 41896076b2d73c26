package storage

import (
	"database/sql"
	"errors"
	"time"

	"ecohotels-e2e/internal/models"
)

// PutFixture stores a captured URL under name, replacing any previous capture.
func (db *DB) PutFixture(name, url string) error {
	_, err := db.conn.Exec(
		`INSERT INTO fixtures (name, url, captured_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET url = excluded.url, captured_at = excluded.captured_at`,
		name, url, time.Now(),
	)
	return err
}

// GetFixture retrieves a captured URL by name.
func (db *DB) GetFixture(name string) (*models.Fixture, error) {
	row := db.conn.QueryRow("SELECT name, url, captured_at FROM fixtures WHERE name = ?", name)

	var f models.Fixture
	if err := row.Scan(&f.Name, &f.URL, &f.CapturedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListFixtures retrieves all captured URLs ordered by name.
func (db *DB) ListFixtures() ([]models.Fixture, error) {
	rows, err := db.conn.Query("SELECT name, url, captured_at FROM fixtures ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		var f models.Fixture
		if err := rows.Scan(&f.Name, &f.URL, &f.CapturedAt); err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// DeleteFixtures removes every captured URL and returns how many were removed.
func (db *DB) DeleteFixtures() (int64, error) {
	res, err := db.conn.Exec("DELETE FROM fixtures")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PutAccount creates or replaces the test account for a role.
func (db *DB) PutAccount(a *models.Account) error {
	a.UpdatedAt = time.Now()
	_, err := db.conn.Exec(
		`INSERT INTO accounts (role, email, sealed_password, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(role) DO UPDATE SET email = excluded.email,
			sealed_password = excluded.sealed_password, updated_at = excluded.updated_at`,
		a.Role, a.Email, a.SealedPassword, a.UpdatedAt,
	)
	return err
}

// GetAccount retrieves the test account for a role.
func (db *DB) GetAccount(role string) (*models.Account, error) {
	row := db.conn.QueryRow(
		"SELECT role, email, sealed_password, updated_at FROM accounts WHERE role = ?",
		role,
	)

	var a models.Account
	if err := row.Scan(&a.Role, &a.Email, &a.SealedPassword, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAccounts retrieves all test accounts ordered by role.
func (db *DB) ListAccounts() ([]models.Account, error) {
	rows, err := db.conn.Query("SELECT role, email, sealed_password, updated_at FROM accounts ORDER BY role")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Role, &a.Email, &a.SealedPassword, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes the test account for a role.
func (db *DB) DeleteAccount(role string) error {
	res, err := db.conn.Exec("DELETE FROM accounts WHERE role = ?", role)
	if err != nil {
		return err
	}
	return expectRow(res)
}
