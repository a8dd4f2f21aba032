package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/hongminglow/astra-console/internal/auth"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
	"github.com/hongminglow/astra-console/internal/storage/postgres"
)

var flagDatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Usage:   "Postgres connection string",
	EnvVars: []string{"DATABASE_URL"},
}

var flagSteps = &cli.IntFlag{
	Name:  "steps",
	Value: 1,
	Usage: "Number of migrations to roll back",
}

var flagEmail = &cli.StringFlag{
	Name:     "email",
	Required: true,
}

var flagPassword = &cli.StringFlag{
	Name:    "password",
	Usage:   "Initial password (at least 8 characters)",
	EnvVars: []string{"ASTRA_ACCOUNT_PASSWORD"},
}

var flagAdmin = &cli.BoolFlag{
	Name:  "admin",
	Usage: "Grant the administrator role",
}

var flagFirstName = &cli.StringFlag{Name: "first-name"}
var flagLastName = &cli.StringFlag{Name: "last-name"}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "astractl",
		Usage: "operate the Astra Mining console database",
		Flags: []cli.Flag{flagDatabaseURL},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "manage the schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply pending migrations",
						Action: migrateUp,
					},
					{
						Name:   "down",
						Usage:  "roll back migrations",
						Flags:  []cli.Flag{flagSteps},
						Action: migrateDown,
					},
					{
						Name:   "status",
						Usage:  "print the current schema version",
						Action: migrateStatus,
					},
				},
			},
			{
				Name:  "account",
				Usage: "manage console accounts",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "create an account with an empty profile",
						Flags:  []cli.Flag{flagEmail, flagPassword, flagAdmin, flagFirstName, flagLastName},
						Action: createAccount,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseURL(cCtx *cli.Context) (string, error) {
	url := strings.TrimSpace(cCtx.String(flagDatabaseURL.Name))
	if url == "" {
		return "", errors.New("DATABASE_URL is required")
	}
	return url, nil
}

func migrateUp(cCtx *cli.Context) error {
	url, err := databaseURL(cCtx)
	if err != nil {
		return err
	}
	changed, err := postgres.MigrateUp(url)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("no new migrations to apply")
		return nil
	}
	fmt.Println("migrations applied")
	return nil
}

func migrateDown(cCtx *cli.Context) error {
	url, err := databaseURL(cCtx)
	if err != nil {
		return err
	}
	if err := postgres.MigrateDown(url, cCtx.Int(flagSteps.Name)); err != nil {
		return err
	}
	fmt.Printf("rolled back %d migration(s)\n", cCtx.Int(flagSteps.Name))
	return nil
}

func migrateStatus(cCtx *cli.Context) error {
	url, err := databaseURL(cCtx)
	if err != nil {
		return err
	}
	status, err := postgres.Status(url)
	if err != nil {
		return err
	}
	if !status.Applied {
		fmt.Println("no migrations have been applied yet")
		return nil
	}
	state := "clean"
	if status.Dirty {
		state = "dirty"
	}
	fmt.Printf("version %d (%s)\n", status.Version, state)
	return nil
}

func createAccount(cCtx *cli.Context) error {
	url, err := databaseURL(cCtx)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(cCtx.String(flagPassword.Name))
	if err != nil {
		return err
	}

	role := models.RoleClient
	if cCtx.Bool(flagAdmin.Name) {
		role = models.RoleAdmin
	}

	store, err := postgres.NewStore(cCtx.Context, url)
	if err != nil {
		return err
	}
	defer store.Close()

	account, err := store.CreateAccount(cCtx.Context, models.Account{
		Email:        strings.TrimSpace(cCtx.String(flagEmail.Name)),
		Role:         role,
		PasswordHash: hash,
	}, models.Profile{
		FirstName:     optional(cCtx.String(flagFirstName.Name)),
		LastName:      optional(cCtx.String(flagLastName.Name)),
		WalletDefault: models.WalletBybitUID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("an account for %s already exists", cCtx.String(flagEmail.Name))
		}
		return err
	}
	fmt.Printf("created %s account %s (%s)\n", account.Role, account.ID, account.Email)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
