// Package preflight validates run prerequisites before any stage mutates the
// filesystem. A failed check here is the only class of error that aborts a
// run with a non-zero exit.
package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Result captures the outcome of one check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckSourceDir verifies that the source exists, is a directory, and is
// readable and writable (deletes and moves need write access on the parent).
func CheckSourceDir(path string) Result {
	const name = "source directory"
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTargetRoot verifies the target root is writable, or can be created
// under a writable parent when it does not exist yet. The directory itself is
// not created here; dry runs must leave the tree untouched.
func CheckTargetRoot(path string) Result {
	const name = "target root"
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s exists and is not a directory", path)}
		}
		if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
	case errors.Is(err, os.ErrNotExist):
		parent := nearestExistingParent(path)
		if parent == "" {
			return Result{Name: name, Detail: fmt.Sprintf("no existing parent for %s", path)}
		}
		if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("cannot create %s under %s: %v", path, parent, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
}

func nearestExistingParent(path string) string {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		if dir == filepath.Dir(dir) {
			return ""
		}
	}
}

// Run evaluates all checks for a cleanup run and returns the first failure.
func Run(sourceDir, targetRoot string) error {
	for _, result := range []Result{CheckSourceDir(sourceDir), CheckTargetRoot(targetRoot)} {
		if !result.Passed {
			return fmt.Errorf("%s: %s", result.Name, result.Detail)
		}
	}
	return nil
}
