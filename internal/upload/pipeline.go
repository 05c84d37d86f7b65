package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// Uploader sends one file; *api.Client implements it
type Uploader interface {
	UploadFile(ctx context.Context, u api.Upload, progress api.ProgressFunc) (*models.MessageResponse, error)
}

// Hooks observe a run. OnProgress may be called from another goroutine.
type Hooks struct {
	OnStart    func(item Item)
	OnProgress func(item Item)
	OnFileDone func(res FileResult)
	OnComplete func(ctx context.Context, res BatchResult)
}

// FileResult is the outcome of one upload
type FileResult struct {
	Name     string
	Size     int64
	Message  string
	Err      error
	Duration time.Duration
}

// BatchResult is the outcome of a run
type BatchResult struct {
	ID        string
	Kind      models.MediaKind
	Succeeded []FileResult
	Failed    []FileResult
	// Skipped lists files never attempted because the context ended
	Skipped []string
	// Items is the final per-file bookkeeping in input order
	Items    []Item
	Duration time.Duration
}

// Summary renders the counts, e.g. "2 uploaded, 1 failed"
func (r BatchResult) Summary() string {
	s := fmt.Sprintf("%d uploaded, %d failed", len(r.Succeeded), len(r.Failed))
	if len(r.Skipped) > 0 {
		s += fmt.Sprintf(", %d skipped", len(r.Skipped))
	}
	return s
}

// Pipeline uploads accepted files strictly one after another
type Pipeline struct {
	uploader Uploader
	rules    Rules
	logger   *logging.Logger
	hooks    Hooks
}

// NewPipeline creates a pipeline. A nil logger discards output.
func NewPipeline(uploader Uploader, rules Rules, logger *logging.Logger, hooks Hooks) *Pipeline {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return &Pipeline{uploader: uploader, rules: rules, logger: logger, hooks: hooks}
}

// Rules returns the validation rules in use
func (p *Pipeline) Rules() Rules {
	return p.rules
}

// Submit validates files and uploads the accepted ones
func (p *Pipeline) Submit(ctx context.Context, kind models.MediaKind, files []Candidate) (BatchResult, []Rejection) {
	accepted, rejections := p.rules.Validate(kind, files)
	for _, r := range rejections {
		p.logger.WithFields(map[string]interface{}{
			"file":   r.Name,
			"reason": string(r.Reason),
		}).Warn(r.Error())
	}
	return p.Run(ctx, kind, accepted), rejections
}

type outcome struct {
	result  FileResult
	ok      bool
	skipped bool
}

// Run uploads candidates in input order. A single worker drains the
// queue; the next request starts only after the previous one returned.
// Failures are recorded and the batch continues. Once ctx is done the
// remaining files are skipped.
func (p *Pipeline) Run(ctx context.Context, kind models.MediaKind, candidates []Candidate) BatchResult {
	start := time.Now()
	batch := newBatch(kind, candidates)
	logger := p.logger.WithBatchID(batch.ID)
	logger.Infof("Starting %s upload batch with %d files", kind, len(candidates))

	queue := make(chan int, len(candidates))
	for i := range candidates {
		queue <- i
	}
	close(queue)

	// OnStart and OnFileDone run on the worker, so a file's done callback
	// returns before the next file starts.
	outcomes := make(chan outcome)
	go func() {
		defer close(outcomes)
		for i := range queue {
			if ctx.Err() != nil {
				batch.setStatus(i, ItemStatusSkipped)
				outcomes <- outcome{result: FileResult{Name: candidates[i].Name, Err: ctx.Err()}, skipped: true}
				continue
			}
			o := p.uploadOne(ctx, kind, batch, i, candidates[i], logger)
			if sent, total := batch.Progress(); total > 0 {
				logger.Debugf("Batch progress: %d of %d bytes", sent, total)
			}
			if p.hooks.OnFileDone != nil {
				p.hooks.OnFileDone(o.result)
			}
			outcomes <- o
		}
	}()

	res := BatchResult{ID: batch.ID, Kind: kind}
	for o := range outcomes {
		switch {
		case o.ok:
			res.Succeeded = append(res.Succeeded, o.result)
		case o.skipped:
			res.Skipped = append(res.Skipped, o.result.Name)
		default:
			res.Failed = append(res.Failed, o.result)
		}
	}

	batch.complete(ctx.Err() != nil)
	res.Items = batch.Snapshot()
	res.Duration = time.Since(start)
	metrics.RecordUploadBatch(string(kind), res.Duration.Seconds())
	logger.Infof("Upload batch finished: %s", res.Summary())

	if p.hooks.OnComplete != nil {
		p.hooks.OnComplete(ctx, res)
	}
	return res
}

func (p *Pipeline) uploadOne(ctx context.Context, kind models.MediaKind, batch *Batch, i int, c Candidate, logger *logging.Logger) outcome {
	started := time.Now()
	item := batch.setStatus(i, ItemStatusUploading)
	if p.hooks.OnStart != nil {
		p.hooks.OnStart(item)
	}

	result := FileResult{Name: c.Name, Size: c.Size}
	fail := func(err error) outcome {
		result.Err = err
		result.Duration = time.Since(started)
		batch.setStatus(i, ItemStatusFailed)
		metrics.RecordUpload(string(kind), false, 0)
		logger.LogUpload(string(kind), c.Name, c.Size, result.Duration, err)
		return outcome{result: result}
	}

	if c.Open == nil {
		return fail(fmt.Errorf("file %q has no content", c.Name))
	}
	body, err := c.Open(ctx)
	if err != nil {
		return fail(fmt.Errorf("open %s: %w", c.Name, err))
	}
	defer body.Close()

	resp, err := p.uploader.UploadFile(ctx, api.Upload{
		Kind: kind,
		Name: c.Name,
		MIME: c.MIME,
		Size: c.Size,
		Body: body,
	}, func(sent, total int64) {
		it := batch.setSent(i, sent)
		if p.hooks.OnProgress != nil {
			p.hooks.OnProgress(it)
		}
	})
	if err != nil {
		return fail(err)
	}

	result.Duration = time.Since(started)
	if resp != nil {
		result.Message = resp.Message
	}
	batch.setStatus(i, ItemStatusDone)
	metrics.RecordUpload(string(kind), true, c.Size)
	logger.LogUpload(string(kind), c.Name, c.Size, result.Duration, nil)
	return outcome{result: result, ok: true}
}
