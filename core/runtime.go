package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrSubmissionInFlight reports a submit that arrived while another was
	// still being processed. Submissions are rejected, never queued.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrActionPending reports a submit that arrived while an action was
	// awaiting confirmation.
	ErrActionPending = errors.New("an action is awaiting confirmation")
	// ErrClosed reports an operation on a closed orchestrator.
	ErrClosed = errors.New("orchestrator closed")
)

// submissionRuntime serializes turn submission. Exactly one submission may be
// in flight; conflicting submits are rejected so the caller gets an immediate
// answer instead of a silently growing queue.
type submissionRuntime struct {
	baseContext context.Context

	closeCh chan struct{}
	endOnce sync.Once

	inFlight atomic.Bool
}

func newSubmissionRuntime() *submissionRuntime {
	return &submissionRuntime{
		baseContext: context.Background(),
		closeCh:     make(chan struct{}),
	}
}

func (runtime *submissionRuntime) configure(ctx context.Context) {
	if runtime == nil {
		return
	}

	runtime.baseContext = ctx
}

// begin claims the submission slot. The caller must call finish once the
// submission has fully resolved, including its playback side effects.
func (runtime *submissionRuntime) begin() error {
	if runtime == nil {
		return ErrClosed
	}

	if runtime.isClosed() {
		return ErrClosed
	}

	if !runtime.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}

	return nil
}

func (runtime *submissionRuntime) finish() {
	if runtime == nil {
		return
	}

	runtime.inFlight.Store(false)
}

func (runtime *submissionRuntime) isInFlight() bool {
	return runtime != nil && runtime.inFlight.Load()
}

func (runtime *submissionRuntime) end() {
	if runtime == nil {
		return
	}

	runtime.endOnce.Do(func() {
		close(runtime.closeCh)
	})
}

func (runtime *submissionRuntime) isClosed() bool {
	if runtime == nil {
		return false
	}

	select {
	case <-runtime.closeCh:
		return true
	default:
		return false
	}
}
