package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rgardner/docchunk/internal/chunker"
	"github.com/rgardner/docchunk/internal/pipeline"
	"github.com/rgardner/docchunk/internal/taxonomy"
)

// chunkRequest is the JSON body for both the synchronous chunk
// endpoint (single leaf node) and job submission (a batch).
type chunkRequest struct {
	LeafNodes []taxonomy.LeafNode `json:"leaf_nodes"`

	// Optional overrides; zero values fall back to server defaults.
	ServerCtxSize  int    `json:"server_ctx_size"`
	ChunkWordCount int    `json:"chunk_word_count"`
	TokenizerModel string `json:"tokenizer_model"`
}

func (s *Server) chunkParams(req chunkRequest) chunker.Params {
	params := chunker.Params{
		TaxonomyPath:       s.cfg.TaxonomyDir,
		OutputDir:          s.cfg.OutputDir,
		TokenizerModelName: s.cfg.TokenizerModel,
		ServerCtxSize:      s.cfg.ServerCtxSize,
		ChunkWordCount:     s.cfg.ChunkWordCount,
	}
	if req.ServerCtxSize > 0 {
		params.ServerCtxSize = req.ServerCtxSize
	}
	if req.ChunkWordCount > 0 {
		params.ChunkWordCount = req.ChunkWordCount
	}
	if req.TokenizerModel != "" {
		params.TokenizerModelName = req.TokenizerModel
	}
	return params
}

// handleChunk chunks a single leaf node synchronously.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.LeafNodes) != 1 {
		jsonError(w, "exactly one leaf node is required", http.StatusBadRequest)
		return
	}

	c, err := chunker.New(req.LeafNodes[0], s.chunkParams(req))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chunker.ErrInvalidInput) || errors.Is(err, chunker.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}

	chunks, err := c.ChunkDocuments()
	if chunks == nil {
		chunks = []string{}
	}
	resp := map[string]any{"chunks": chunks}
	if err != nil {
		// Documents that failed conversion are reported alongside the
		// chunks from the ones that succeeded.
		resp["conversion_error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitJobs queues a batch of leaf nodes for asynchronous
// chunking.
func (s *Server) handleSubmitJobs(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.LeafNodes) == 0 {
		jsonError(w, "at least one leaf node is required", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.LeafNodes, s.chunkParams(req))
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobChunks(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusQueued, pipeline.StatusChunking:
		jsonError(w, "job still in progress", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": snap.Status,
		"chunks": job.Chunks(),
		"errors": snap.Progress.Errors,
	})
}
