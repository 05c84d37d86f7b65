package console

import (
	"context"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// UploadReport is the outcome of App.Upload
type UploadReport struct {
	Result     upload.BatchResult
	Rejections []upload.Rejection
}

// Upload collects refs from src, validates them and uploads the accepted
// files one at a time. When the batch completes the folder listing is
// refetched.
func (a *App) Upload(ctx context.Context, kind models.MediaKind, src upload.Source, refs []string, hooks upload.Hooks) UploadReport {
	candidates, unreadable := upload.Collect(ctx, src, refs)

	done := hooks.OnComplete
	hooks.OnComplete = func(ctx context.Context, res upload.BatchResult) {
		if len(res.Succeeded) > 0 {
			// the batch context may already be cancelled
			if _, err := a.RefreshFiles(context.WithoutCancel(ctx), kind); err != nil {
				a.logger.WithError(err).Warnf("Failed to refresh %s listing", kind.Label())
			}
		}
		if done != nil {
			done(ctx, res)
		}
	}

	pipeline := upload.NewPipeline(a.client, a.rules, a.logger, hooks)
	res, rejected := pipeline.Submit(ctx, kind, candidates)
	return UploadReport{Result: res, Rejections: append(unreadable, rejected...)}
}
