package tick

import (
	"fmt"

	"go.uber.org/zap"
)

// Scheduler runs deferred tasks once per world tick.
// Accessed only from the game loop goroutine; no locks.
type Scheduler struct {
	pending []*Handle
	nextSeq uint64
	tick    uint64
	log     *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		pending: make([]*Handle, 0, 64),
		log:     log,
	}
}

// Submit registers task to fire after delayTicks calls to Advance.
// A delay below 1 fires on the next Advance.
func (s *Scheduler) Submit(task Task, delayTicks int) *Handle {
	return s.SubmitNamed(taskName(task), task, delayTicks)
}

// SubmitNamed is Submit with an explicit label for logging.
func (s *Scheduler) SubmitNamed(name string, task Task, delayTicks int) *Handle {
	if delayTicks < 1 {
		delayTicks = 1
	}
	s.nextSeq++
	h := &Handle{
		task:      task,
		name:      name,
		seq:       s.nextSeq,
		interval:  delayTicks,
		remaining: delayTicks,
	}
	s.pending = append(s.pending, h)
	return h
}

// Cancel removes a pending task. Cancelling a task that already ran to
// completion (or was already cancelled) is a no-op.
func (s *Scheduler) Cancel(h *Handle) {
	if h == nil || h.Done() {
		return
	}
	h.cancelled = true
}

// Advance moves the world forward one tick. Every task pending at the start of
// the call has its counter decremented; due tasks execute in submission order.
// Tasks submitted while advancing start counting on the next call.
func (s *Scheduler) Advance() {
	s.tick++
	n := len(s.pending)
	for i := 0; i < n; i++ {
		h := s.pending[i]
		if h.cancelled {
			continue
		}
		h.remaining--
		if h.remaining > 0 {
			continue
		}
		s.run(h)
		if !h.stopped {
			h.remaining = h.interval
		}
	}
	s.compact()
}

func (s *Scheduler) run(h *Handle) {
	defer func() {
		if r := recover(); r != nil {
			// 任務崩潰不可中斷整個 tick：記錄後移除
			h.stopped = true
			s.log.Error("排程任務執行失敗",
				zap.String("task", h.name),
				zap.Uint64("tick", s.tick),
				zap.Any("panic", r),
			)
		}
	}()
	h.runs++
	h.task.Execute(h)
}

func (s *Scheduler) compact() {
	kept := s.pending[:0]
	for _, h := range s.pending {
		if h.Done() {
			continue
		}
		kept = append(kept, h)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
}

// Pending returns the number of tasks still scheduled.
func (s *Scheduler) Pending() int {
	count := 0
	for _, h := range s.pending {
		if !h.Done() {
			count++
		}
	}
	return count
}

// Tick returns how many times Advance has been called.
func (s *Scheduler) Tick() uint64 { return s.tick }

type named interface {
	TaskName() string
}

func taskName(t Task) string {
	if n, ok := t.(named); ok {
		return n.TaskName()
	}
	return fmt.Sprintf("%T", t)
}
