package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/cyclekit/cyclekit/internal/cli"
	"github.com/cyclekit/cyclekit/internal/logger"
)

const usage = `usage: cyclectl <command> [flags]

commands:
  calendar        print a month calendar for one user
  reset-password  reset a user's password
`

func main() {
	_ = godotenv.Load()
	logger.Init("warn", "development")

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout io.Writer, stderr io.Writer, now time.Time) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "calendar":
		flags := flag.NewFlagSet("calendar", flag.ContinueOnError)
		flags.SetOutput(stderr)
		dbPath := flags.String("db", defaultDBPath(), "sqlite database path")
		email := flags.String("email", "", "account email")
		month := flags.String("month", "", "month to print as YYYY-MM (default: current)")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		return cli.RunCalendarCommand(cli.CalendarOptions{
			DBPath: *dbPath,
			Email:  *email,
			Month:  *month,
			Today:  now,
		}, stdout)

	case "reset-password":
		flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
		flags.SetOutput(stderr)
		dbPath := flags.String("db", defaultDBPath(), "sqlite database path")
		email := flags.String("email", "", "account email")
		prompt := flags.Bool("prompt", false, "choose the new password instead of issuing a temporary one")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}

		options := cli.ResetPasswordOptions{DBPath: *dbPath, Email: *email}
		if *prompt {
			password, err := cli.PromptNewPassword(stdin, stdout)
			if err != nil {
				return err
			}
			options.Password = password
		}
		return cli.RunResetPasswordCommand(options, stdout)

	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func defaultDBPath() string {
	if path := os.Getenv("DB_PATH"); path != "" {
		return path
	}
	return filepath.Join("data", "cyclekit.db")
}
