package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// useradmin flips a user's role or account status straight in the database.
// Registration always creates active users with the user role; this is the
// only path to grant admin or disable an account.
func main() {
	var (
		idFlag     string
		emailFlag  string
		roleFlag   string
		statusFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&roleFlag, "role", "", "role to assign (user, admin)")
	flag.StringVar(&statusFlag, "status", "", "account status to assign (active, disabled)")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	role := strings.TrimSpace(strings.ToLower(roleFlag))
	status := strings.TrimSpace(strings.ToLower(statusFlag))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if role == "" && status == "" {
		exitWithError(errors.New("at least one of -role or -status must be provided"))
	}
	switch role {
	case "", "user", "admin":
	default:
		exitWithError(fmt.Errorf("unsupported role %q", role))
	}
	switch status {
	case "", "active", "disabled":
	default:
		exitWithError(fmt.Errorf("unsupported status %q", status))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	query := `
		UPDATE users
		SET role = COALESCE(NULLIF($3, ''), role),
		    status = COALESCE(NULLIF($4, ''), status),
		    updated_at = NOW()
		WHERE ($1 <> '' AND id = $1::uuid) OR ($1 = '' AND email = $2)
		RETURNING id, email, role, status`

	var (
		updatedID     string
		updatedEmail  string
		updatedRole   string
		updatedStatus string
	)
	row := pool.QueryRow(ctx, query, userID, email, role, status)
	if err := row.Scan(&updatedID, &updatedEmail, &updatedRole, &updatedStatus); err != nil {
		exitWithError(fmt.Errorf("failed to update user: %w", err))
	}

	fmt.Printf("User %s (%s) now role=%s status=%s\n", updatedID, updatedEmail, updatedRole, updatedStatus)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "useradmin:", err)
	os.Exit(1)
}
