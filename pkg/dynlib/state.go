package dynlib

// State is the position of a Handle in its lifecycle.
type State int

const (
	// StateUnloaded is the zero value; no Handle returned by Open is in it.
	StateUnloaded State = iota

	// StateOpening is held only while Open runs.
	StateOpening

	// StateOpenFailed means the platform loader could not map the library.
	// It holds no resources and is terminal.
	StateOpenFailed

	// StateIdentifyFailed means the library is mapped but the identification
	// symbol was missing or returned no text.
	StateIdentifyFailed

	// StateIdentified means the library is mapped and reported an identity.
	StateIdentified

	// StateReleased means a held mapping has been released. It is terminal.
	StateReleased
)

var stateNames = [...]string{
	StateUnloaded:       "unloaded",
	StateOpening:        "opening",
	StateOpenFailed:     "open-failed",
	StateIdentifyFailed: "identify-failed",
	StateIdentified:     "identified",
	StateReleased:       "released",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Held reports whether a handle in this state owns a library mapping.
func (s State) Held() bool {
	return s == StateIdentifyFailed || s == StateIdentified
}
