package app

import (
	"context"
	"fmt"
	"io"

	"github.com/wqyuan/contactsheet/internal/domain"
	"github.com/wqyuan/contactsheet/internal/export"
)

// ContactSource yields the full normalized contact list for the
// authenticated user.
type ContactSource interface {
	FetchAll(ctx context.Context, progress func(fetched, total int)) ([]domain.Contact, error)
}

// ExportService runs one full export: fetch every contact, then write the
// CSV artifact. Progress lines go to out.
type ExportService struct {
	source ContactSource
	output string
	out    io.Writer
}

// NewExportService returns an ExportService writing the artifact to output.
func NewExportService(source ContactSource, output string, out io.Writer) *ExportService {
	return &ExportService{
		source: source,
		output: output,
		out:    out,
	}
}

// Run performs the export and returns the number of contacts written. A
// zero-contact account is not an error; no file is written in that case.
func (s *ExportService) Run(ctx context.Context) (int, error) {
	fmt.Fprintln(s.out, "Retrieving contacts...")
	contacts, err := s.source.FetchAll(ctx, func(fetched, total int) {
		fmt.Fprintf(s.out, "Retrieved %d contacts (total: %d)...\n", fetched, total)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Fprintln(s.out, "No contacts to export.")
		return 0, nil
	}

	fmt.Fprintf(s.out, "Exporting %d contacts to %s...\n", len(contacts), s.output)
	if err := export.WriteCSV(s.output, contacts); err != nil {
		return 0, fmt.Errorf("failed to export contacts: %w", err)
	}

	fmt.Fprintf(s.out, "Successfully exported %d contacts to %s\n", len(contacts), s.output)
	return len(contacts), nil
}
