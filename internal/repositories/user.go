package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/shared"
)

// UserRepository persists [models.User] profiles and their listening preferences.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence.
// A duplicate email returns [shared.ErrDuplicateEmail].
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.ID = shared.GenerateID()
	user.Sequence = sequence

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, user.ID, sequence, user.Email, user.Name, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err, "users.email") {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateEmail, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID with preferences attached, excluding soft-deleted users.
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, email, name, created_at, updated_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`

	user, err := r.scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user.Preferences, err = r.loadPreferences(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email address, excluding soft-deleted users.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, sequence, email, name, created_at, updated_at
		FROM users
		WHERE email = ? AND deleted_at IS NULL
	`

	user, err := r.scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user.Preferences, err = r.loadPreferences(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Update modifies an existing user's name and email.
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.UpdatedAt = now

	query := `
		UPDATE users
		SET email = ?, name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Email, user.Name, now, user.ID)
	if isUniqueViolation(err, "users.email") {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateEmail, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID)
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users.
// Preferences are attached to each returned user.
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, email, name, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, user := range users {
		if user.Preferences, err = r.loadPreferences(user.ID); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// AttachPreference appends an enriched track to the user's preference list
// and returns the updated user.
func (r *UserRepository) AttachPreference(userID string, info models.TrackInfo) (*models.User, error) {
	if _, err := r.Get(userID); err != nil {
		return nil, err
	}

	now := time.Now()

	query := `
		INSERT INTO preferences (id, user_id, track_name, artist, album, release_date, album_type, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, shared.GenerateID(), userID,
		info.TrackName, info.Artist, info.Album, info.ReleaseDate, info.AlbumType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to attach preference: %w", err)
	}

	if _, err := r.db.Exec("UPDATE users SET updated_at = ? WHERE id = ?", now, userID); err != nil {
		return nil, fmt.Errorf("failed to touch user: %w", err)
	}

	return r.Get(userID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*models.User, error) {
	var (
		userID    string
		sequence  int
		email     string
		name      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&userID, &sequence, &email, &name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	user := models.NewUser(sequence, email, name)
	user.ID = userID
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt

	return user, nil
}

func (r *UserRepository) loadPreferences(userID string) ([]models.Preference, error) {
	query := `
		SELECT track_name, artist, album, release_date, album_type, added_at
		FROM preferences
		WHERE user_id = ?
		ORDER BY added_at ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	preferences := []models.Preference{}
	for rows.Next() {
		var pref models.Preference
		err := rows.Scan(&pref.TrackInfo.TrackName, &pref.TrackInfo.Artist,
			&pref.TrackInfo.Album, &pref.TrackInfo.ReleaseDate, &pref.TrackInfo.AlbumType, &pref.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		preferences = append(preferences, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return preferences, nil
}
