// Команда createsuperuser создаёт пользователя с доступом к админке и правами
// суперпользователя. Пароль берётся из ACCOUNTS_PASSWORD или вводится в
// терминале без отображения.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"golang.org/x/term"

	"github.com/magabrotheeeer/accounts-admin/internal/audit"
	"github.com/magabrotheeeer/accounts-admin/internal/cache"
	"github.com/magabrotheeeer/accounts-admin/internal/config"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/migrations"
	"github.com/magabrotheeeer/accounts-admin/internal/services/accounts"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
	"github.com/magabrotheeeer/accounts-admin/internal/storage/repository"
)

const passwordEnv = "ACCOUNTS_PASSWORD"

// Коды завершения.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var in input
	flag.StringVar(&in.Username, "username", "", "ユーザID")
	flag.StringVar(&in.Email, "email", "", "メールアドレス")
	flag.StringVar(&in.LastName, "last-name", "", "苗字")
	flag.StringVar(&in.FirstName, "first-name", "", "名前")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := in.validate(validator.New()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitInvalid
	}

	cfg := config.MustLoad()
	ctx := context.Background()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		return exitFailure
	}
	defer func() {
		_ = db.Close()
	}()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		return exitFailure
	}

	if err := checkUsername(ctx, db, in.Username); err != nil {
		if errors.Is(err, errUsernameTaken) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitInvalid
		}
		logger.Error("failed to look up username", sl.Err(err))
		return exitFailure
	}

	pass, err := readPassword()
	if err != nil {
		if errors.Is(err, errPasswordMismatch) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitInvalid
		}
		logger.Error("failed to read password", sl.Err(err))
		return exitFailure
	}
	if err := validatePassword(pass); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitInvalid
	}

	service := accounts.NewService(db, db, cache.Nop{}, audit.Nop{}, logger)
	user, err := service.CreateSuperuser(ctx, in.Username, in.Email, pass, in.LastName, in.FirstName)
	switch {
	case errors.Is(err, accounts.ErrValidation), errors.Is(err, storage.ErrUsernameTaken):
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitInvalid
	case err != nil:
		logger.Error("failed to create superuser", sl.Err(err))
		return exitFailure
	}

	fmt.Printf("Superuser %q created successfully (id=%d).\n", user.Username, user.ID)
	return exitOK
}

func readPassword() (string, error) {
	if pass, ok := os.LookupEnv(passwordEnv); ok {
		return pass, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Password (again): ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}
