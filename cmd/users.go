package main

import (
	"context"
	"fmt"

	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsersCreate stores a new user profile.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewUserRepository(db)

	user := models.NewUser(0, email, name)
	if err := repo.Create(user); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Info("user created", "id", user.ID, "email", user.Email)

	if useJSON {
		return r.writeJSON(user, true)
	}

	r.writePlain("✓ User created\n")
	r.writePlain("  ID: %s\n", user.ID)
	r.writePlain("  Name: %s\n", user.Name)
	r.writePlain("  Email: %s\n", user.Email)
	return nil
}

// UsersList prints the stored user profiles.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewUserRepository(db)

	criteria := map[string]any{}
	if email != "" {
		criteria["email"] = email
	}

	users, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if useJSON {
		return r.writeJSON(users, pretty)
	}

	r.writePlain("Found %d users:\n\n", len(users))
	for i, u := range users {
		r.writePlain("%d. %s <%s>\n", i+1, u.Name, u.Email)
		r.writePlain("   ID: %s\n", u.ID)
		r.writePlain("   Preferences: %d\n", len(u.Preferences))
		r.writePlain("\n")
	}

	return nil
}
