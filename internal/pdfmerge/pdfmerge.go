// Package pdfmerge concatenates PDF documents using pdfcpu. The orchestrator
// depends on the Merger interface so the merge stage degrades to a reported
// no-op when no merger is wired, and tests can substitute a fake.
package pdfmerge

import (
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merger concatenates validated PDF files into a single output document.
type Merger interface {
	// Validate reports whether the file at path is a readable, well-formed PDF.
	Validate(ctx context.Context, path string) error
	// Merge concatenates the inputs, in order, into a new file at output.
	Merge(ctx context.Context, inputs []string, output string) error
}

// PDFCPU is the production Merger backed by the pdfcpu library.
type PDFCPU struct{}

// New returns the pdfcpu-backed Merger.
func New() *PDFCPU {
	return &PDFCPU{}
}

func (*PDFCPU) Validate(_ context.Context, path string) error {
	return api.ValidateFile(path, nil)
}

func (*PDFCPU) Merge(_ context.Context, inputs []string, output string) error {
	return api.MergeCreateFile(inputs, output, false, nil)
}
