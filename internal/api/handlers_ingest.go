package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rgardner/docchunk/internal/filetype"
	"github.com/rgardner/docchunk/internal/pipeline"
	"github.com/rgardner/docchunk/internal/taxonomy"
)

// handleIngest accepts a multipart upload of source documents, stores
// them under the output directory, and submits a chunking job for the
// resulting leaf node.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	uploadDir := filepath.Join(s.cfg.OutputDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		jsonError(w, "failed to create upload dir", http.StatusInternalServerError)
		return
	}

	leaf := taxonomy.LeafNode{
		TaxonomyPath: r.FormValue("taxonomy_path"),
	}
	for _, header := range files {
		filename := sanitizeFilename(header.Filename)
		if !filetype.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := header.Open()
		if err != nil {
			jsonError(w, "failed to open upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read upload", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		// Content-addressed name keeps re-uploads from piling up.
		stored := filepath.Join(uploadDir, pipeline.ContentHashHex(data)[:16]+"-"+filename)
		if err := os.WriteFile(stored, data, 0o644); err != nil {
			jsonError(w, "failed to store upload", http.StatusInternalServerError)
			return
		}
		// Stored paths must not re-resolve against the taxonomy root.
		if abs, err := filepath.Abs(stored); err == nil {
			stored = abs
		}

		leaf.Filepaths = append(leaf.Filepaths, stored)
		leaf.Documents = append(leaf.Documents, documentContent(data))
	}

	req := chunkRequest{LeafNodes: []taxonomy.LeafNode{leaf}}
	if v := r.FormValue("server_ctx_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.ServerCtxSize = n
		}
	}
	if v := r.FormValue("chunk_word_count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.ChunkWordCount = n
		}
	}
	if v := r.FormValue("tokenizer_model"); v != "" {
		req.TokenizerModel = v
	}

	job := pipeline.NewJob(req.LeafNodes, s.chunkParams(req))
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"files":    len(leaf.Filepaths),
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

// documentContent returns file bytes as a document string. Binary
// uploads (PDF, DOCX) are chunked from their stored paths, so only a
// placeholder is kept for them.
func documentContent(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return "(binary)"
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
