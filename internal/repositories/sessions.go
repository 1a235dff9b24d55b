package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
)

// SessionRepository implements [models.Repository] for [models.Session] persistence.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database with a generated ID
func (r *SessionRepository) Create(session *models.Session) error {
	id := shared.GenerateID()
	session.SetID(id)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, token_expires_at, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		session.UserID(),
		session.AccessToken(),
		session.RefreshToken(),
		session.TokenExpiresAt(),
		session.CreatedAt(),
		session.ExpiresAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, token_expires_at, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var (
		sessionID      string
		userID         string
		accessToken    string
		refreshToken   string
		tokenExpiresAt time.Time
		createdAt      time.Time
		expiresAt      time.Time
	)

	err := r.db.QueryRow(query, id).Scan(
		&sessionID, &userID, &accessToken, &refreshToken, &tokenExpiresAt, &createdAt, &expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.NewSession(userID, accessToken, refreshToken, tokenExpiresAt)
	session.SetID(sessionID)
	session.SetCreatedAt(createdAt)
	session.SetExpiresAt(expiresAt)

	return session, nil
}

// Update writes back a session's token pair after a refresh
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE sessions
		SET access_token = ?, refresh_token = ?, token_expires_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		session.AccessToken(),
		session.RefreshToken(),
		session.TokenExpiresAt(),
		session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	return nil
}

// Delete removes a session by ID, logging the user out
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return nil
}

// DeleteExpired removes sessions whose lifetime lapsed before now.
// Returns the number of sessions swept.
func (r *SessionRepository) DeleteExpired(now time.Time) (int, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}
