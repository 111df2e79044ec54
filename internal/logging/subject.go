package logging

import (
	"path/filepath"
	"strings"
)

// FormatSubject builds the footage/shot/stage subject string used in console output.
func FormatSubject(footage, shot, stage string) string {
	footage = strings.TrimSpace(footage)
	shot = strings.TrimSpace(shot)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 2)
	if footage != "" {
		parts = append(parts, filepath.Base(footage))
	}
	switch {
	case shot != "" && stage != "":
		parts = append(parts, "Shot "+shot+" ("+stage+")")
	case shot != "":
		parts = append(parts, "Shot "+shot)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
