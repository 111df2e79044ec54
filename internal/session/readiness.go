package session

// ReadinessHelp is shown while a session cannot be ingested.
const ReadinessHelp = "Select footage to import from list, add shot(s) for each one and add at least 1 mapping"

// Readiness reports whether an ingest can start.
type Readiness struct {
	Ready bool   `json:"ready"`
	Help  string `json:"help,omitempty"`
}

// Readiness requires a non-empty selection, at least one shot on every
// imported footage item, and at least one mapping rule.
func (s *Session) Readiness(selection []string) Readiness {
	ready := len(selection) > 0 && len(s.mappings) > 0
	for _, entry := range s.footage {
		if len(entry.shots) == 0 {
			ready = false
			break
		}
	}
	if ready {
		return Readiness{Ready: true}
	}
	return Readiness{Help: ReadinessHelp}
}
