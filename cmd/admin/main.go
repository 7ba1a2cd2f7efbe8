// Command admin creates a superadmin account. It is the bootstrap path for
// the first privileged user; regular accounts register over HTTP.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/server/config"
	"github.com/avelkers/carwash/internal/server/models"
	"github.com/avelkers/carwash/internal/server/password"
	"github.com/avelkers/carwash/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fullname, err := prompt(reader, "Full name")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}
	phone, err := prompt(reader, "Phone number")
	if err != nil {
		return err
	}

	fmt.Print("Password (no echo): ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}
	if len(pw) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	hash, err := password.NewHasher(cfg.BcryptCost).Hash(string(pw))
	if err != nil {
		return err
	}

	user, err := manager.Users(db).Create(ctx, &models.User{
		FullName:     fullname,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         models.RoleSuperadmin,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrPhoneTaken) {
			return fmt.Errorf("account already exists: %w", err)
		}
		return err
	}

	fmt.Printf("created superadmin %s (id %d)\n", user.Email, user.ID)
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label + ": ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return value, nil
}
