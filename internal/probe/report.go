package probe

import (
	"fmt"
	"time"
)

// StateRejected marks paths that failed validation and were never opened.
const StateRejected = "rejected"

// SymbolReport describes the lookup of one extra symbol.
type SymbolReport struct {
	Name    string `json:"name"              yaml:"name"`
	Found   bool   `json:"found"             yaml:"found"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Report is the outcome of inspecting a single library.
type Report struct {
	Path     string         `json:"path"               yaml:"path"`
	Identity string         `json:"identity,omitempty" yaml:"identity,omitempty"`
	State    string         `json:"state"              yaml:"state"`
	Valid    bool           `json:"valid"              yaml:"valid"`
	Mode     string         `json:"mode,omitempty"     yaml:"mode,omitempty"`
	Symbols  []SymbolReport `json:"symbols,omitempty"  yaml:"symbols,omitempty"`
	Size     int64          `json:"size,omitempty"     yaml:"size,omitempty"`
	LoadTime time.Duration  `json:"load_time_ns"       yaml:"load_time"`
	Error    string         `json:"error,omitempty"    yaml:"error,omitempty"`
}

// MissingSymbols returns the names of requested symbols that were not found.
func (r Report) MissingSymbols() []string {
	var missing []string

	for _, s := range r.Symbols {
		if !s.Found {
			missing = append(missing, s.Name)
		}
	}

	return missing
}

func formatAddress(addr uintptr) string {
	return fmt.Sprintf("%#x", addr)
}

// Summary counts reports by outcome.
type Summary struct {
	Total    int
	Valid    int
	Invalid  int
	Rejected int
}

// Summarize counts valid, invalid and rejected reports.
func Summarize(reports []Report) Summary {
	s := Summary{Total: len(reports)}

	for _, r := range reports {
		switch {
		case r.Valid:
			s.Valid++
		case r.State == StateRejected:
			s.Rejected++
		default:
			s.Invalid++
		}
	}

	return s
}

// AllValid reports whether every report is valid. An empty slice is valid.
func AllValid(reports []Report) bool {
	for _, r := range reports {
		if !r.Valid {
			return false
		}
	}

	return true
}
