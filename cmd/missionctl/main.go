package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/missiontracker/mission-backend/config"
	"github.com/missiontracker/mission-backend/internal/bootstrap"
	authrepo "github.com/missiontracker/mission-backend/internal/auth/repository"
	authservice "github.com/missiontracker/mission-backend/internal/auth/service"
	missionrepo "github.com/missiontracker/mission-backend/internal/missions/repository"
	missionservice "github.com/missiontracker/mission-backend/internal/missions/service"
	"github.com/missiontracker/mission-backend/internal/storage/postgres"
	"github.com/missiontracker/mission-backend/internal/storage/postgres/migrate"
)

var jsonOut bool

var rootCmd = &cobra.Command{
	Use:           "missionctl",
	Short:         "Operator tooling for the mission backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output JSON")
	rootCmd.AddCommand(migrateCmd(), tokenCmd(), missionsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pool, err := bootstrap.OpenDB(cmd.Context(), bootstrap.DBOptionsFrom(&cfg.Database))
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := migrate.Run(cmd.Context(), pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("schema up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Println("applied", name)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Find or create a user and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
				if cfg.Auth.Provider != config.AuthProviderSession {
					return fmt.Errorf("token requires AUTH_PROVIDER=%s", config.AuthProviderSession)
				}

				users := authservice.NewAuthService(authrepo.NewUserRepository(db))
				id, err := users.FindOrCreateByEmail(ctx, email)
				if err != nil {
					return err
				}

				sessions, err := bootstrap.NewSessions(cfg.Auth, nil)
				if err != nil {
					return err
				}
				token, expiresAt, err := sessions.Issue(id)
				if err != nil {
					return err
				}

				if jsonOut {
					return printJSON(map[string]any{"token": token, "expiresAt": expiresAt.UTC(), "user": id})
				}
				fmt.Printf("user:    %s <%s>\nexpires: %s\n%s\n", id.ID, id.Email, expiresAt.UTC().Format(time.RFC3339), token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func missionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Inspect missions",
	}
	cmd.AddCommand(missionsListCmd())
	return cmd
}

func missionsListCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
				users := authservice.NewAuthService(authrepo.NewUserRepository(db))
				id, err := users.LookupByEmail(ctx, email)
				if err != nil {
					return err
				}

				svc := missionservice.NewMissionService(missionrepo.NewMissionRepository(db))
				items, err := svc.List(ctx, id.ID)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(items)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Description", "Updated"})
				for _, m := range items {
					desc := ""
					if m.Description != nil {
						desc = *m.Description
					}
					tw.AppendRow(table.Row{m.ID, m.Title, m.Status, desc, m.UpdatedAt.Format(time.RFC3339)})
				}
				tw.AppendFooter(table.Row{"", "", "", "Total", len(items)})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func withDB(ctx context.Context, fn func(context.Context, *config.Config, *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, cfg, db)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
