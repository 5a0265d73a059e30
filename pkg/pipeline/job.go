package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage is a progress milestone of a run.
type Stage string

const (
	StageTemplates  Stage = "templates"
	StageExpanded   Stage = "expanded"
	StageSerialized Stage = "serialized"
	StageWritten    Stage = "written"
	StageDone       Stage = "done"
)

// Event reports progress. Done and Total count records for StageExpanded
// and artifacts for every other stage.
type Event struct {
	Stage   Stage  `json:"stage"`
	Format  string `json:"format,omitempty"`
	Package string `json:"package,omitempty"`
	Path    string `json:"path,omitempty"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Err     error  `json:"-"`
}

// eventBuffer is the capacity of a job's event channel.
const eventBuffer = 64

// JobState is the lifecycle state of a Job.
type JobState string

const (
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// Job is a run executing in the background.
//
// Progress events are advisory: a slow reader misses events rather than
// stalling the run. Use Wait for the outcome.
type Job struct {
	ID      string
	Started time.Time

	events chan Event
	done   chan struct{}
	cancel context.CancelFunc

	result *Result
	err    error
}

// Start runs opts on a new goroutine and returns immediately.
func (r *Runner) Start(ctx context.Context, opts Options) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		ID:      uuid.NewString(),
		Started: time.Now(),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer close(j.done)
		defer close(j.events)
		defer cancel()
		j.result, j.err = r.execute(ctx, opts, j.emit)
	}()
	return j
}

func (j *Job) emit(e Event) {
	select {
	case j.events <- e:
	default:
	}
}

// Events returns the progress channel. It is closed when the run ends.
func (j *Job) Events() <-chan Event { return j.events }

// Done is closed when the run ends.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel stops the run at the next record or file boundary.
func (j *Job) Cancel() { j.cancel() }

// Wait blocks until the run ends and returns its outcome.
func (j *Job) Wait() (*Result, error) {
	<-j.done
	return j.result, j.err
}

// State reports the job's lifecycle state without blocking.
func (j *Job) State() JobState {
	select {
	case <-j.done:
		if j.err != nil {
			return JobFailed
		}
		return JobSucceeded
	default:
		return JobRunning
	}
}
