package system

import "time"

// Phase orders systems within a tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: steering decides intents
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: movement validation and commit
	PhasePostUpdate              // 3: reserved for reactions to movement
	PhaseCleanup                 // 4: destroy queued entities
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "cleanup"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// System is implemented by every per-tick system.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
