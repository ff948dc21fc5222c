package cli

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cyclekit/cyclekit/internal/db"
	"github.com/cyclekit/cyclekit/internal/security"
	"github.com/cyclekit/cyclekit/internal/services"
)

const temporaryPasswordLength = 12

// ResetPasswordOptions selects the account and, optionally, the password to
// set. An empty Password issues a temporary one that must be changed on
// next login.
type ResetPasswordOptions struct {
	DBPath   string
	Email    string
	Password string
}

func RunResetPasswordCommand(options ResetPasswordOptions, out io.Writer) error {
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return fmt.Errorf("invalid email address %q", options.Email)
	}

	password := options.Password
	mustChange := password == ""
	if mustChange {
		generated, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		password = generated
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}

	database, closeDB, err := openDatabase(options.DBPath)
	if err != nil {
		return err
	}
	defer closeDB()

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, string(passwordHash), mustChange); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintln(out, "✅ Password reset successful")
	if mustChange {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
		fmt.Fprintln(out, "User must change password on next login.")
	}
	return nil
}

func openDatabase(path string) (*gorm.DB, func(), error) {
	database, err := db.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	return database, func() { _ = sqlDB.Close() }, nil
}
