package google

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/wqyuan/contactsheet/internal/domain"
	"github.com/wqyuan/contactsheet/internal/export"
	people "google.golang.org/api/people/v1"
)

// Fetch two raw persons across two pages, normalize them, and write the CSV,
// verifying the full pipeline end to end.
func TestFetchNormalizeExport(t *testing.T) {
	withPrimaryEmail := &people.Person{
		Names: []*people.Name{{DisplayName: "Jane Smith"}},
		EmailAddresses: []*people.EmailAddress{
			email("first@example.com", false),
			email("flagged@example.com", true),
			email("third@example.com", false),
		},
		Organizations: []*people.Organization{{Name: "Initech", Title: "Engineer"}},
		Metadata: &people.PersonMetadata{
			Sources: []*people.Source{{Type: "CONTACT", UpdateTime: "2023-03-04T05:06:07Z"}},
		},
	}
	withoutOrgs := &people.Person{
		Names:          []*people.Name{{DisplayName: "Bob"}},
		EmailAddresses: []*people.EmailAddress{email("bob@example.com", false)},
	}

	lister := &fakeLister{
		pages: []*people.ListConnectionsResponse{
			{Connections: []*people.Person{withPrimaryEmail}, NextPageToken: "tok"},
			{Connections: []*people.Person{withoutOrgs}},
		},
		failAt: -1,
	}

	persons, err := fetchAll(context.Background(), lister, nil)
	if err != nil {
		t.Fatalf("fetchAll() error: %v", err)
	}
	contacts := make([]domain.Contact, 0, len(persons))
	for _, p := range persons {
		contacts = append(contacts, mapPerson(p))
	}

	path := filepath.Join(t.TempDir(), "contacts.csv")
	if err := export.WriteCSV(path, contacts); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 3 {
		t.Fatalf("output has %d rows, want header + 2 data rows", len(rows))
	}
	// Columns: Name, Email, Phone, Organization, Title, Created, Updated.
	if rows[1][1] != "flagged@example.com" {
		t.Errorf("row 1 Email = %q, want the primary-flagged value, not the first listed", rows[1][1])
	}
	if rows[2][3] != "" || rows[2][4] != "" {
		t.Errorf("row 2 Organization/Title = %q/%q, want both empty", rows[2][3], rows[2][4])
	}
	if rows[1][6] != "2023-03-04T05:06:07Z" {
		t.Errorf("row 1 Updated = %q, want the CONTACT source update time verbatim", rows[1][6])
	}
}
