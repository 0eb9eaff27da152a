package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/epghub/epghub/app/config"
	"github.com/epghub/epghub/app/guide"
)

type ReloadSourceTask struct {
	Task
	SourceConfig *config.SourceConfig
	reloader     *guide.Reloader
}

func NewReloadSourceTask(sourceConfig *config.SourceConfig, reloader *guide.Reloader) *ReloadSourceTask {
	return &ReloadSourceTask{
		Task:         NewTask(TaskTypeReloadSource, sourceConfig.Source.ID),
		SourceConfig: sourceConfig,
		reloader:     reloader,
	}
}

func (t *ReloadSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceID)
		return nil
	}

	result, err := t.reloader.Run(ctx, t.SourceConfig.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to reload source %s: %w", t.SourceID, err)
	}

	slog.Info("Task completed",
		"type", "ReloadSource",
		"source", t.SourceID,
		"duration", t.GetDuration(),
		"channels", result.Channels,
		"programs", result.Programs,
		"merged", result.Merged,
		"skipped", result.Skipped)

	return nil
}
