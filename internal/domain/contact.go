package domain

// Contact is one contact flattened to a single exportable row. Multi-valued
// source fields have already been collapsed to a single value; anything the
// source did not provide is the empty string.
type Contact struct {
	Name         string
	Email        string
	Phone        string
	Organization string
	Title        string
	Created      string
	Updated      string
}

// Columns returns the export column names, in output order.
func Columns() []string {
	return []string{"Name", "Email", "Phone", "Organization", "Title", "Created", "Updated"}
}

// Record returns the contact's field values in the same order as Columns.
func (c Contact) Record() []string {
	return []string{c.Name, c.Email, c.Phone, c.Organization, c.Title, c.Created, c.Updated}
}
