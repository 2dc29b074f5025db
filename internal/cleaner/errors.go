package cleaner

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrConfiguration marks fatal setup failures that abort the run.
	ErrConfiguration = errors.New("configuration error")

	// Per-file error kinds. These are counted and logged, never fatal.
	ErrPermission          = errors.New("permission denied")
	ErrVanished            = errors.New("file vanished")
	ErrCollisionUnresolved = errors.New("name collision unresolved")
	ErrMergeUnavailable    = errors.New("pdf merge unavailable")
	ErrMergeSourceCorrupt  = errors.New("pdf source corrupt")
	ErrUndoTargetMissing   = errors.New("undo target missing")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// classifyFileError maps an OS error from a per-file operation to the matching
// sentinel, preserving the original error in the chain.
func classifyFileError(stage, operation, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Wrap(ErrVanished, stage, operation, path, err)
	case errors.Is(err, fs.ErrPermission):
		return Wrap(ErrPermission, stage, operation, path, err)
	default:
		return fmt.Errorf("%s: %s: %s: %w", stage, operation, path, err)
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "cleaner failure"
	}
	return strings.Join(parts, ": ")
}
