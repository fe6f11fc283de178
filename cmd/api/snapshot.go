package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskcraftify/internal/adapter/cache"
	"taskcraftify/internal/adapter/http/mapper"
	"taskcraftify/internal/config"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
)

var errNoCachedTasks = errors.New("no cached tasks")

func newSnapshotCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the categorized task buckets as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var tasks []domain.Task
			var err error
			if offline {
				tasks, err = cachedTasks(ctx, cfg)
			} else {
				tasks, err = liveTasks(ctx, cfg)
			}
			if err != nil {
				return err
			}

			result := categorize.Categorize(tasks, time.Now(), categorizeOptions(cfg))
			return writeJSON(cmd.OutOrStdout(), mapper.ToCategoriesResponse(result))
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "read the local snapshot cache instead of MySQL")
	return cmd
}

func liveTasks(ctx context.Context, cfg *config.Config) ([]domain.Task, error) {
	a, err := newApp(cfg, zap.L())
	if err != nil {
		return nil, err
	}
	defer a.close()

	if err := a.load(ctx); err != nil {
		return nil, err
	}
	return a.tasks.GetAll(), nil
}

func cachedTasks(ctx context.Context, cfg *config.Config) ([]domain.Task, error) {
	snapshots, err := cache.Open(cfg.CachePath, zap.L())
	if err != nil {
		return nil, err
	}
	defer snapshots.Close()

	tasks, _, ok, err := snapshots.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoCachedTasks
	}
	return tasks, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
