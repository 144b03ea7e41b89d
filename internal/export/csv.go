package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/wqyuan/contactsheet/internal/domain"
)

// WriteCSV writes the contacts to a UTF-8 CSV file at path, one header row
// followed by one row per contact in input order. Any existing file is
// overwritten. An empty contact list writes nothing: the file is not created
// so a headerless or header-only artifact never appears.
func WriteCSV(path string, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(domain.Columns()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range contacts {
		if err := w.Write(c.Record()); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
