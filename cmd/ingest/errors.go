package main

import (
	"context"
	"errors"

	"ingest/internal/services"
	"ingest/internal/textutil"
)

// formatCLIError turns a classified error into a one-line notice such as
// "Not Found: edl: footage lookup: ...".
func formatCLIError(err error) string {
	details := services.Details(err)
	if details.Kind == "unknown" {
		return details.Message
	}
	return textutil.Title(details.Kind) + ": " + details.Message
}

// Exit codes: 2 for bad input (session, EDL or config), 130 when interrupted,
// 1 for anything else including failed renders.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConfiguration), errors.Is(err, services.ErrNotFound):
		return 2
	default:
		return 1
	}
}
