package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/storage"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/webhook"
)

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload local files, or objects from the configured bucket, to a media folder",
		ArgsUsage: "<video|img> [path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "from-bucket", Usage: "read the paths as object keys in storage.bucketName"},
			&cli.StringFlag{Name: "prefix", Usage: "with --from-bucket and no paths, upload every object under this prefix"},
		},
		Action: withSession(runUpload),
	}
}

func runUpload(c *cli.Context, e *env) error {
	kind, err := kindArg(c)
	if err != nil {
		return err
	}
	refs := c.Args().Tail()

	var src upload.Source = upload.LocalSource{}
	if c.Bool("from-bucket") {
		bucket, err := storage.New(c.Context, e.cfg.Storage)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			if refs, err = bucket.List(c.Context, c.String("prefix")); err != nil {
				return err
			}
		}
		src = bucket
	}
	if len(refs) == 0 {
		return fmt.Errorf("nothing to upload")
	}

	notifier := webhook.NewNotifier(e.cfg.Webhook, e.logger)
	hooks := upload.Hooks{
		OnStart: func(item upload.Item) {
			fmt.Fprintf(e.errOut, "uploading %s (%d bytes)\n", item.Name, item.Size)
		},
		OnFileDone: func(res upload.FileResult) {
			if res.Err != nil {
				fmt.Fprintf(e.errOut, "  %s failed: %v\n", res.Name, res.Err)
				return
			}
			fmt.Fprintf(e.errOut, "  %s\n", res.Message)
		},
		OnComplete: func(ctx context.Context, res upload.BatchResult) {
			e.logger.WithBatchID(res.ID).Debug("Upload batch finished")
			if !notifier.Enabled() {
				return
			}
			if err := notifier.NotifyUpload(context.WithoutCancel(ctx), res); err != nil {
				fmt.Fprintf(e.errOut, "webhook: %v\n", err)
			}
		},
	}

	report := e.app.Upload(c.Context, kind, src, refs, hooks)
	for _, r := range report.Rejections {
		fmt.Fprintf(e.errOut, "rejected %s: %v\n", r.Name, r)
	}
	fmt.Fprintf(e.out, "%s in %s\n", report.Result.Summary(), report.Result.Duration.Round(time.Millisecond))

	if len(report.Result.Failed) > 0 || len(report.Result.Skipped) > 0 || len(report.Rejections) > 0 {
		return fmt.Errorf("upload incomplete: %s, %d rejected", report.Result.Summary(), len(report.Rejections))
	}
	return nil
}
