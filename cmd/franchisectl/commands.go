// cmd/franchisectl/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/franchise-backoffice/internal/app"
	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/services"
)

// withApp loads configuration, wires the application and hands it to fn.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.SetupLogging(cfg)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := database.RunMigrations(a.DB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin account if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := database.SeedInitialData(a.DB, a.Config.Admin); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin account %s ready\n", a.Config.Admin.Email)
				return nil
			})
		},
	}
}

func royaltiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "royalties",
		Short: "Royalty billing runs",
	}
	cmd.AddCommand(generateRoyaltiesCommand(), markOverdueCommand())
	return cmd
}

func generateRoyaltiesCommand() *cobra.Command {
	var (
		year      int
		month     int
		franchise string
	)

	now := time.Now().UTC()
	previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate royalties for every billable unit in a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.GenerateRoyaltiesInput{PeriodYear: year, PeriodMonth: month}
			if franchise != "" {
				id, err := uuid.Parse(franchise)
				if err != nil {
					return fmt.Errorf("invalid --franchise: %w", err)
				}
				in.FranchiseID = &id
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				p, err := adminPrincipal(ctx, a)
				if err != nil {
					return err
				}

				// Notifications are queued in-process; flush them before exit.
				workerCtx, stop := context.WithCancel(ctx)
				a.StartWorkers(workerCtx)
				defer func() {
					stop()
					a.Wait()
				}()

				result, err := a.Services.Royalty.Generate(ctx, p, in)
				if err != nil {
					return fmt.Errorf("generate royalties: %w", err)
				}
				for _, r := range result.Generated {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.RoyaltyNumber, r.UnitID, r.TotalAmount.StringFixed(2))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "generated %d, skipped %d\n", len(result.Generated), result.Skipped)
				return nil
			})
		},
	}

	c.Flags().IntVar(&year, "year", previous.Year(), "Period year")
	c.Flags().IntVar(&month, "month", int(previous.Month()), "Period month (1-12)")
	c.Flags().StringVar(&franchise, "franchise", "", "Restrict the run to one franchise id")
	return c
}

func markOverdueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Mark pending royalties past their due date as overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				n, err := a.Services.Royalty.MarkOverdue(ctx, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d royalties marked overdue\n", n)
				return nil
			})
		},
	}
}

func outboxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Redis event queue utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "drain",
		Short: "Deliver every queued event now and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if a.Queue == nil {
					return errors.New("redis is disabled; set REDIS_ENABLED=true")
				}
				n, err := a.Queue.Drain(ctx)
				if err != nil {
					return err
				}
				logrus.WithField("count", n).Info("Event queue drained")
				fmt.Fprintf(cmd.OutOrStdout(), "%d events delivered\n", n)
				return nil
			})
		},
	})
	return cmd
}

// adminPrincipal acts as the configured admin account.
func adminPrincipal(ctx context.Context, a *app.App) (scope.Principal, error) {
	var admin models.User
	err := a.DB.WithContext(ctx).
		Where("email = ? AND role = ?", a.Config.Admin.Email, models.RoleAdmin).
		First(&admin).Error
	if err != nil {
		return scope.Principal{}, fmt.Errorf("admin account %s not found (run seed first): %w", a.Config.Admin.Email, err)
	}
	return scope.Principal{UserID: admin.ID, Role: admin.Role}, nil
}
