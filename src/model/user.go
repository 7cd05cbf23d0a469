// backend/src/model/user.go
package model

import (
	"database/sql"
	"fmt"
	"time"
)

// User is an authenticated report consumer. CompanyID scopes every report
// request the user makes.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CompanyID    int64
}

// Session is a server-side record of an issued access token.
type Session struct {
	ID     int64
	UserID int64
	Token  string
	Expiry time.Time
}

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	u := &User{}
	err := db.QueryRow(
		`SELECT id, username, email, password_hash, company_id FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("fetching user %d: %w", id, err)
	}
	return u, nil
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	u := &User{}
	err := db.QueryRow(
		`SELECT id, username, email, password_hash, company_id FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("fetching user %q: %w", username, err)
	}
	return u, nil
}

func CreateSession(db *sql.DB, userID int64, token string, expiry time.Time) error {
	_, err := db.Exec(
		`INSERT INTO sessions (user_id, token, expiry) VALUES (?, ?, ?)`,
		userID, token, expiry.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating session for user %d: %w", userID, err)
	}
	return nil
}

func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	s := &Session{}
	var expiry string
	err := db.QueryRow(
		`SELECT id, user_id, token, expiry FROM sessions WHERE token = ?`, token,
	).Scan(&s.ID, &s.UserID, &s.Token, &expiry)
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}
	s.Expiry, err = time.Parse(time.RFC3339, expiry)
	if err != nil {
		return nil, fmt.Errorf("parsing session expiry: %w", err)
	}
	if time.Now().After(s.Expiry) {
		return nil, fmt.Errorf("session expired")
	}
	return s, nil
}

func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
