package system

import "time"

const phaseCount = int(PhaseCleanup) + 1

// Runner is the world loop: each tick it walks the phases in order and runs
// the systems of each phase in registration order.
type Runner struct {
	phases [phaseCount][]System
	ticks  uint64
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to its phase. Systems with an out-of-range phase run in Cleanup.
func (r *Runner) Register(s System) {
	p := int(s.Phase())
	if p < 0 || p >= phaseCount {
		p = int(PhaseCleanup)
	}
	r.phases[p] = append(r.phases[p], s)
}

// Tick runs one full world step.
func (r *Runner) Tick(dt time.Duration) {
	r.ticks++
	for p := range r.phases {
		r.run(Phase(p), dt)
	}
}

// TickPhase runs only the systems of one phase, without counting a tick.
// Shutdown uses it to deliver the last buffered events.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if int(phase) < 0 || int(phase) >= phaseCount {
		return
	}
	r.run(phase, dt)
}

func (r *Runner) run(phase Phase, dt time.Duration) {
	for _, s := range r.phases[phase] {
		s.Update(dt)
	}
}

// Ticks returns how many full ticks have run.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Systems returns how many systems are registered in phase.
func (r *Runner) Systems(phase Phase) int {
	if int(phase) < 0 || int(phase) >= phaseCount {
		return 0
	}
	return len(r.phases[phase])
}
