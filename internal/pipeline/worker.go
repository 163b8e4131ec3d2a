package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/legalchunk/internal/assemble"
	"github.com/dgallion1/legalchunk/internal/chunker"
	"github.com/dgallion1/legalchunk/internal/manifest"
	"github.com/dgallion1/legalchunk/internal/parser"
	"github.com/dgallion1/legalchunk/internal/publish"
	"github.com/dgallion1/legalchunk/internal/sink"
)

// Publisher uploads a rendered document. *publish.Client satisfies it.
type Publisher interface {
	Import(ctx context.Context, filename string, data []byte, meta publish.Metadata) error
}

// Deps are the collaborators a worker hands documents to. Manifest and
// Publisher are optional.
type Deps struct {
	Counter   chunker.Counter
	Sink      sink.Sink
	Manifest  *manifest.Store
	Publisher Publisher
	Catalog   publish.Catalog
}

// Worker processes a single document job.
type Worker struct {
	deps     Deps
	chunkCfg chunker.Config
	chunker  *chunker.Chunker
	stats    *Stats
	log      *slog.Logger
}

func NewWorker(deps Deps, chunkCfg chunker.Config, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{
		deps:     deps,
		chunkCfg: chunkCfg,
		chunker:  chunker.New(chunkCfg, deps.Counter),
		stats:    stats,
		log:      log,
	}
}

// Process runs the full chunking pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "file", job.Filename)
	defer job.releaseFileData()

	finish := func(status JobStatus, phase string) {
		if w.stats != nil {
			snap := job.Snapshot()
			w.stats.Record(status, snap.Progress.OverBudget, snap.Progress.Units, time.Since(start).Milliseconds())
		}
		job.SetStatus(status, phase)
	}

	// Phase 0: Resume check
	job.SetStatus(StatusParsing, "checking manifest")
	if skip, entry := w.unchanged(ctx, job, log); skip {
		log.Info("unchanged document, skipping", "output", entry.OutputPath)
		job.SetTitle(entry.Title)
		job.SetProgress(Progress{
			Units:      entry.Units,
			OverBudget: entry.OverBudget,
			OutputPath: entry.OutputPath,
		})
		finish(StatusSkipped, "unchanged")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		finish(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		finish(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.SetTitle(doc.Title)

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	ch := w.chunker
	if job.MaxTokens > 0 && job.MaxTokens != w.chunkCfg.MaxTokens {
		cfg := w.chunkCfg
		cfg.MaxTokens = job.MaxTokens
		ch = chunker.New(cfg, w.deps.Counter)
	}
	res := ch.Process(doc)
	job.SetProgress(Progress{
		Chunks:              res.Chunks,
		Units:               len(res.Units),
		SplitChunks:         res.Split,
		OversizedUnits:      res.Oversized,
		Footnotes:           res.Footnotes,
		UnresolvedFootnotes: res.Unresolved,
		OverBudget:          res.OverBudget(),
	})
	log.Info("chunked document",
		"chunks", res.Chunks,
		"units", len(res.Units),
		"split", res.Split,
		"footnotes", res.Footnotes,
	)
	if len(res.Unresolved) > 0 {
		log.Warn("unresolved footnotes", "refs", res.Unresolved)
	}
	if res.Oversized > 0 {
		log.Warn("units over budget", "count", res.Oversized, "max_tokens", ch.Config().MaxTokens)
	}
	if len(res.Units) == 0 {
		log.Warn("no chunkable content")
	}

	// Phase 3: Write
	job.SetStatus(StatusWriting, "writing")
	out := assemble.Render(res.Units)
	path, err := w.deps.Sink.Write(ctx, job.Filename, out)
	if err != nil {
		log.Error("write failed", "error", err)
		job.AddError(fmt.Sprintf("write: %s", err))
		finish(StatusFailed, "writing")
		return
	}
	job.SetOutput(out, path)

	// Phase 4: Publish
	if w.deps.Publisher != nil {
		job.SetStatus(StatusPublishing, "publishing")
		meta := w.deps.Catalog.Lookup(job.Filename, res.Title)
		if err := w.deps.Publisher.Import(ctx, path, out, meta); err != nil {
			log.Error("publish failed", "error", err)
			job.AddError(fmt.Sprintf("publish: %s", err))
			finish(StatusFailed, "publishing")
			return
		}
		job.MarkPublished()
	}

	if w.deps.Manifest != nil {
		err := w.deps.Manifest.Put(ctx, manifest.Entry{
			Filename:    job.Filename,
			ContentHash: job.ContentHash,
			Title:       res.Title,
			Units:       len(res.Units),
			OverBudget:  res.OverBudget(),
			OutputPath:  path,
			ProcessedAt: time.Now(),
		})
		if err != nil {
			log.Warn("manifest write failed", "error", err)
			job.AddError(fmt.Sprintf("manifest: %s", err))
		}
	}

	log.Info("document complete", "output", path, "duration_ms", time.Since(start).Milliseconds())
	finish(StatusCompleted, "done")
}

// unchanged reports whether the manifest already holds this exact content
// with its output still on disk.
func (w *Worker) unchanged(ctx context.Context, job *Job, log *slog.Logger) (bool, *manifest.Entry) {
	if job.Force || w.deps.Manifest == nil {
		return false, nil
	}
	entry, err := w.deps.Manifest.Get(ctx, job.Filename)
	if err != nil {
		log.Warn("manifest lookup failed, proceeding", "error", err)
		return false, nil
	}
	if entry == nil || entry.ContentHash != job.ContentHash || !sink.Exists(entry.OutputPath) {
		return false, nil
	}
	return true, entry
}
