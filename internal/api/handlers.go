package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/caption-lens/internal/pipeline"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

type translateRequest struct {
	TargetLanguage string              `json:"target_language"`
	Subtitles      []subtitle.Subtitle `json:"subtitles"`
}

type subtitlesResponse struct {
	Subtitles []subtitle.Subtitle `json:"subtitles"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// analyze stores the uploaded video and queues a job for it
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "missing video file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	target := strings.TrimSpace(r.FormValue("target_language"))
	if target == "" {
		target = s.cfg.Translate.TargetLanguage
	}

	path, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.logger.Error(r.Context(), "Failed to save upload %s: %v", header.Filename, err)
		jsonError(w, "failed to save upload", http.StatusInternalServerError)
		return
	}

	if !s.track() {
		os.Remove(path)
		jsonError(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	job := s.jobs.create(filepath.Base(header.Filename), target, cancel)
	s.logger.Info(r.Context(), "Queued job %s for %s", job.ID, job.Filename)

	go s.runJob(ctx, job.ID, path, target)

	jsonResponse(w, job, http.StatusAccepted)
}

func (s *Server) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.Paths.Temp, 0755); err != nil {
		return "", err
	}
	dst, err := os.CreateTemp(s.cfg.Paths.Temp, "upload-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (s *Server) runJob(ctx context.Context, id, path, target string) {
	defer s.wg.Done()
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn(ctx, "Failed to cleanup upload %s: %v", path, err)
		}
	}()

	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		s.jobs.finish(id, nil, 0, ctx.Err())
		return
	}
	defer func() { <-s.slots }()

	if !s.jobs.start(id) {
		return
	}

	result, err := s.processor.Analyze(ctx, path, pipeline.Options{TargetLanguage: target})
	if err != nil {
		s.logger.Error(ctx, "Job %s failed: %v", id, err)
		s.jobs.finish(id, nil, 0, err)
		return
	}
	s.logger.Info(ctx, "Job %s completed: %d records", id, len(result.Subtitles))
	s.jobs.finish(id, result.Subtitles, result.Duration, nil)
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, s.jobs.list(), http.StatusOK)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.get(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	jsonResponse(w, job, http.StatusOK)
}

// cancelJob cancels a pending or running job
func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	err := s.jobs.cancel(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, ErrJobNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrJobNotActive):
		jsonError(w, err.Error(), http.StatusConflict)
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// jobSubtitles renders a completed job as SRT or VTT. ?translated=true
// renders the translation track.
func (s *Server) jobSubtitles(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.get(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if job.Status != StatusCompleted {
		jsonError(w, "job is "+string(job.Status), http.StatusConflict)
		return
	}

	useTranslation := r.URL.Query().Get("translated") == "true"
	base := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))

	var write func(io.Writer, []subtitle.Subtitle, bool) error
	switch format := chi.URLParam(r, "format"); format {
	case "srt":
		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
		write = subtitle.WriteSRT
	case "vtt":
		w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
		write = subtitle.WriteVTT
	default:
		jsonError(w, "unsupported format: "+format, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"."+chi.URLParam(r, "format")))

	if err := write(w, job.Subtitles, useTranslation); err != nil {
		s.logger.Error(r.Context(), "Failed to render subtitles for job %s: %v", job.ID, err)
	}
}

// translate translates the given records synchronously
func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.TargetLanguage = strings.TrimSpace(req.TargetLanguage)
	if req.TargetLanguage == "" {
		jsonError(w, "target_language is required", http.StatusBadRequest)
		return
	}

	subs, err := s.processor.Translate(r.Context(), req.Subtitles, req.TargetLanguage)
	if err != nil {
		s.logger.Error(r.Context(), "Translate failed: %v", err)
		jsonError(w, "translation failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	jsonResponse(w, subtitlesResponse{Subtitles: subs}, http.StatusOK)
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, map[string]string{"error": msg}, status)
}
