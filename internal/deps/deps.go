package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is an external binary a render backend or hook needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after PATH resolution. Path holds the resolved
// executable when Available; Detail explains why it is not.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Check resolves one requirement.
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	switch {
	case err == nil:
		status.Available = true
		status.Path = path
	case errors.Is(err, exec.ErrNotFound):
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
	default:
		status.Detail = fmt.Sprintf("binary %q unusable: %v", req.Command, err)
	}
	return status
}

// CheckBinaries resolves every requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Check(req))
	}
	return results
}
