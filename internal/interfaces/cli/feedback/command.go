package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/application/feedback/usecases"
	fbdomain "github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/database"
	"github.com/campushub/campushub/internal/infrastructure/pubsub"
	"github.com/campushub/campushub/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/campushub/campushub/internal/interfaces/http"
	"github.com/campushub/campushub/internal/shared/logger"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	env       string
	actorID   string
	batchSize int
	output    string
	allEvents bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Feedback thread maintenance",
		Long:  `Operational commands for feedback threads: legacy migration and live event watching.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newMigrateV1Command(),
		newWatchCommand(),
	)

	return cmd
}

func newMigrateV1Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-v1",
		Short: "Convert pending V1 feedback records into threads",
		Long: `Migrate every legacy feedback record not yet migrated. Each record is claimed
and converted in its own transaction; rerunning the command only picks up
records left pending.`,
		RunE: runMigrateV1,
	}

	cmd.Flags().StringVar(&actorID, "actor", "system-migration", "Admin user id recorded as the migration actor")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Records fetched per batch (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Summary format (json, yaml)")

	return cmd
}

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream thread events from the Redis relay",
		Long:  `Print every feedback thread event published by any service instance until interrupted.`,
		RunE:  runWatch,
	}

	cmd.Flags().BoolVar(&allEvents, "include-own", true, "Include events published by this process")

	return cmd
}

func runMigrateV1(cmd *cobra.Command, args []string) error {
	if output != outputJSON && output != outputYAML {
		return fmt.Errorf("unsupported output format %q", output)
	}

	cfg, log, err := bootstrap.InitWithDatabase(bootstrap.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}
	if err := container.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer container.Shutdown(context.Background())

	actor, err := fbdomain.NewRequester(actorID, vo.RoleAdmin)
	if err != nil {
		return err
	}
	if batchSize <= 0 {
		batchSize = cfg.Feedback.Migration.BatchSize
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := container.MigrateLegacyUseCase().Execute(ctx, usecases.MigrateLegacyCommand{
		Requester: actor,
		BatchSize: batchSize,
	})
	if err != nil {
		return fmt.Errorf("legacy migration failed: %w", err)
	}

	log.Infow("legacy migration finished",
		"migrated", summary.Migrated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	if err := writeSummary(cmd.OutOrStdout(), summary, output); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d legacy records failed to migrate", summary.Failed)
	}
	return nil
}

func writeSummary(w io.Writer, summary *dto.MigrationSummaryDTO, format string) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(bootstrap.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Redis.Enabled {
		return fmt.Errorf("redis is disabled; enable it to watch feedback events")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	bus := pubsub.NewRedisFeedbackEventBus(client, cfg.Feedback.EventChannel, log.Named("watch"))
	out := cmd.OutOrStdout()

	log.Infow("watching feedback events", "channel", cfg.Feedback.EventChannel)
	err = bus.Subscribe(ctx, !allEvents, func(_ context.Context, msg pubsub.FeedbackEventMessage) {
		printEvent(out, msg)
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printEvent(w io.Writer, msg pubsub.FeedbackEventMessage) {
	fmt.Fprintf(w, "%s  %-34s thread=%s actor=%s(%s)",
		msg.GetOccurredAt().Format("2006-01-02T15:04:05Z07:00"),
		msg.GetEventType(),
		msg.Thread.ID,
		msg.ActorID,
		msg.ActorRole,
	)
	if msg.PreviousValue != "" || msg.NewValue != "" {
		fmt.Fprintf(w, " %s -> %s", msg.PreviousValue, msg.NewValue)
	}
	fmt.Fprintln(w)
}
