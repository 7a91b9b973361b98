package tick

// Task is one unit of deferred work. Execute runs on the game loop goroutine and
// must not block. A task that does not call h.Stop() stays scheduled and fires
// again after h.Delay() more ticks, which gives one-shot and periodic work from
// the same primitive.
type Task interface {
	Execute(h *Handle)
}

// Func adapts a closure to Task.
type Func func(h *Handle)

func (f Func) Execute(h *Handle) { f(h) }

// Handle is the scheduler's bookkeeping for one submitted task. It is returned
// by Submit so the caller can cancel the task later, and passed to Execute so
// the task can stop or reschedule itself.
type Handle struct {
	task      Task
	name      string
	seq       uint64
	interval  int
	remaining int
	stopped   bool
	cancelled bool
	runs      int
}

// Stop marks the task terminal; it is removed after the current execution.
func (h *Handle) Stop() { h.stopped = true }

// Stopped reports whether the task has marked itself terminal.
func (h *Handle) Stopped() bool { return h.stopped }

// Cancelled reports whether the task was cancelled before it could finish.
func (h *Handle) Cancelled() bool { return h.cancelled }

// Delay returns the interval used when the task is retained after execution.
func (h *Handle) Delay() int { return h.interval }

// SetDelay changes the interval for the next run. Values below 1 are clamped.
func (h *Handle) SetDelay(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	h.interval = ticks
}

// Remaining returns the ticks left before the next execution.
func (h *Handle) Remaining() int { return h.remaining }

// Runs returns how many times the task has executed.
func (h *Handle) Runs() int { return h.runs }

// Name returns the label given at submission (used in logs only).
func (h *Handle) Name() string { return h.name }

// Done reports whether the scheduler no longer holds the task.
func (h *Handle) Done() bool { return h.stopped || h.cancelled }
