package google

import (
	"github.com/wqyuan/contactsheet/internal/domain"
	people "google.golang.org/api/people/v1"
)

// sourceTypeContact marks the contact's own canonical data source in the
// person metadata.
const sourceTypeContact = "CONTACT"

// mapPerson flattens a People API person into a single contact row. Every
// multi-valued group collapses to one value via primary-else-first
// selection; anything missing becomes the empty string, never an error.
func mapPerson(p *people.Person) domain.Contact {
	var c domain.Contact
	if p == nil {
		return c
	}

	if n := selectPrimary(p.Names, func(n *people.Name) *people.FieldMetadata { return n.Metadata }); n != nil {
		c.Name = n.DisplayName
		if c.Name == "" {
			c.Name = n.GivenName
		}
	}

	if e := selectPrimary(p.EmailAddresses, func(e *people.EmailAddress) *people.FieldMetadata { return e.Metadata }); e != nil {
		c.Email = e.Value
	}

	if ph := selectPrimary(p.PhoneNumbers, func(ph *people.PhoneNumber) *people.FieldMetadata { return ph.Metadata }); ph != nil {
		c.Phone = ph.Value
	}

	if o := selectPrimary(p.Organizations, func(o *people.Organization) *people.FieldMetadata { return o.Metadata }); o != nil {
		c.Organization = o.Name
		c.Title = o.Title
	}

	if p.Metadata != nil {
		if s := selectSource(p.Metadata.Sources); s != nil {
			// Timestamps pass through verbatim. The People API rarely
			// reports a creation time for a source and the Go client does
			// not surface one, so Created stays empty.
			c.Updated = s.UpdateTime
		}
	}

	return c
}

// selectPrimary returns the first entry whose field metadata carries the
// primary flag, falling back to the first entry in original order. Returns
// nil for an empty group.
func selectPrimary[T any](entries []*T, meta func(*T) *people.FieldMetadata) *T {
	for _, e := range entries {
		if e == nil {
			continue
		}
		if md := meta(e); md != nil && md.Primary {
			return e
		}
	}
	for _, e := range entries {
		if e != nil {
			return e
		}
	}
	return nil
}

// selectSource returns the first CONTACT-typed source, falling back to the
// first source in the list.
func selectSource(sources []*people.Source) *people.Source {
	for _, s := range sources {
		if s != nil && s.Type == sourceTypeContact {
			return s
		}
	}
	for _, s := range sources {
		if s != nil {
			return s
		}
	}
	return nil
}
