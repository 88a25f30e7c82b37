package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rgardner/docchunk/internal/chunker"
)

// Worker processes a single chunking job.
type Worker struct {
	log             *slog.Logger
	leafParallelism int
}

func NewWorker(log *slog.Logger, leafParallelism int) *Worker {
	if leafParallelism <= 0 {
		leafParallelism = 1
	}
	return &Worker{
		log:             log,
		leafParallelism: leafParallelism,
	}
}

// Process chunks every leaf node in the job. Leaf nodes are
// independent (each chunker instance owns its data), so they run
// concurrently up to leafParallelism. Chunk order within a leaf node
// is preserved by the chunker; leaf results are appended as they
// complete.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	job.SetStatus(StatusChunking, "chunking")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.leafParallelism)

	for _, leaf := range job.leafNodes {
		if ctx.Err() != nil {
			break
		}
		leaf := leaf
		g.Go(func() error {
			c, err := chunker.New(leaf, job.params)
			if err != nil {
				log.Error("chunker construction failed", "taxonomy_path", leaf.TaxonomyPath, "error", err)
				job.AddError(err.Error())
				return nil // One bad leaf does not sink the batch.
			}

			chunks, err := c.ChunkDocuments()
			if err != nil {
				// Partial results are still worth keeping; the error
				// names the documents that failed conversion.
				log.Warn("chunking incomplete", "taxonomy_path", leaf.TaxonomyPath, "error", err)
				job.AddError(err.Error())
			}
			if len(chunks) > 0 || err == nil {
				job.AddChunks(chunks)
			}

			est := 0
			for _, chunk := range chunks {
				est += chunker.EstimateTokens(chunk)
			}
			log.Info("chunked leaf node",
				"taxonomy_path", leaf.TaxonomyPath,
				"chunks", len(chunks),
				"est_tokens", est,
			)
			return nil
		})
	}
	g.Wait()

	snap := job.Snapshot()
	switch {
	case len(snap.Progress.Errors) == 0:
		job.SetStatus(StatusCompleted, "done")
	case snap.Progress.TotalChunks > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "done")
	}
	log.Info("job finished", "status", job.Snapshot().Status, "chunks", snap.Progress.TotalChunks)
}
