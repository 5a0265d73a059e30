package api

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// jobEntry tracks one submitted job and the last event it reported.
type jobEntry struct {
	job *pipeline.Job
	dir string

	mu   sync.Mutex
	last pipeline.Event
}

func (e *jobEntry) follow() {
	for ev := range e.job.Events() {
		e.mu.Lock()
		e.last = ev
		e.mu.Unlock()
	}
}

// JobStatus is the body returned by the job endpoints.
type JobStatus struct {
	ID       string            `json:"id"`
	State    pipeline.JobState `json:"state"`
	Started  time.Time         `json:"started"`
	Progress pipeline.Event    `json:"progress"`
	Result   *pipeline.Result  `json:"result,omitempty"`
	Files    []string          `json:"files,omitempty"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}

func (e *jobEntry) status() JobStatus {
	e.mu.Lock()
	last := e.last
	e.mu.Unlock()

	st := JobStatus{
		ID:       e.job.ID,
		State:    e.job.State(),
		Started:  e.job.Started,
		Progress: last,
	}
	if st.State == pipeline.JobRunning {
		return st
	}

	res, err := e.job.Wait()
	st.Result = res
	if res != nil {
		for _, f := range res.Files {
			if rel, rerr := filepath.Rel(e.dir, f.Path); rerr == nil {
				st.Files = append(st.Files, filepath.ToSlash(rel))
			}
		}
	}
	if err != nil {
		code := errs.GetCode(err)
		if code == "" {
			code = errs.ErrCodeInternal
		}
		st.Error = &ErrorResponse{Code: string(code), Message: errs.UserMessage(err)}
	}
	return st
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dir := filepath.Join(s.root, uuid.NewString())
	opts, err := req.options(dir)
	if err != nil {
		writeError(w, err)
		return
	}
	// Reject bad input synchronously so a job never starts for it.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger

	e := &jobEntry{job: s.runner.Start(s.ctx, opts), dir: dir}
	go e.follow()

	s.mu.Lock()
	s.jobs[e.job.ID] = e
	s.mu.Unlock()

	s.logger.Info("job started", "id", e.job.ID, "series", opts.Series, "packages", opts.Packages)
	w.Header().Set("Location", "/v1/jobs/"+e.job.ID)
	writeJSON(w, http.StatusAccepted, e.status())
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]JobStatus, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, e.status())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*jobEntry, bool) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	e, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, errs.New(errs.ErrCodeNotFound, "job not found: %s", id))
	}
	return e, ok
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if e, ok := s.lookupJob(w, r); ok {
		writeJSON(w, http.StatusOK, e.status())
	}
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	e.job.Cancel()
	<-e.job.Done()
	writeJSON(w, http.StatusOK, e.status())
}

func (s *Server) handleJobFile(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	rel := chi.URLParam(r, "*")
	if err := errs.ValidatePath(rel); err != nil {
		writeError(w, err)
		return
	}
	path := filepath.Join(e.dir, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, errs.New(errs.ErrCodeNotFound, "file not found: %s", rel))
		return
	}
	http.ServeFile(w, r, path)
}
