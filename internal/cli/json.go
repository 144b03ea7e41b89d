package cli

// jsonExport is the machine-readable summary of an export run. Output is
// omitted when no file was written.
type jsonExport struct {
	OK       bool   `json:"ok"`
	Contacts int    `json:"contacts"`
	Output   string `json:"output,omitempty"`
}

// jsonAuth is the machine-readable summary of an auth run.
type jsonAuth struct {
	OK     bool   `json:"ok"`
	Expiry string `json:"expiry,omitempty"`
}

// jsonAuthStatus describes the cached credential.
type jsonAuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Expiry        string `json:"expiry,omitempty"`
	Refreshable   bool   `json:"refreshable"`
	Storage       string `json:"storage"`
}
