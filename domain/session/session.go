package session

// State is the preview tool's persisted state.
// It is written wholesale after every change; there is no history.
type State struct {
	File    string `json:"file"`
	Start   string `json:"start"`
	End     string `json:"end"`
	LastDir string `json:"last_dir"`
}

// IsZero reports whether no prior session was recorded
func (s State) IsZero() bool {
	return s == State{}
}

// Store persists the session state
type Store interface {
	// Load returns the stored state, or a zero State when none is usable
	Load() State

	// Save overwrites the stored state
	Save(s State) error
}
