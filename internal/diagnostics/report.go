package diagnostics

import "encoding/json"

// Schema is the versioned shape of a serialized report, matching the
// teacher's Report.Schema convention ("ailang.error/v1").
const Schema = "inko.diagnostic/v1"

// Report is the wire-shape a tool consumer (CLI, editor plugin, CI) reads.
// It is the JSON-facing twin of Diagnostic.
type Report struct {
	Schema   string         `json:"schema"`
	Session  string         `json:"session"`
	Severity string         `json:"severity"`
	Code     string         `json:"code"`
	File     string         `json:"file,omitempty"`
	Line     int            `json:"line,omitempty"`
	Column   int            `json:"column,omitempty"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}

// Reports converts every accumulated diagnostic into its wire shape, in
// insertion order.
func (d *Diagnostics) Reports() []Report {
	out := make([]Report, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, Report{
			Schema:   Schema,
			Session:  d.SessionID.String(),
			Severity: e.Severity.String(),
			Code:     string(e.Code),
			File:     e.Location.File,
			Line:     e.Location.Line,
			Column:   e.Location.Column,
			Message:  e.Message,
			Data:     e.Data,
		})
	}
	return out
}

// ToJSON renders the full diagnostic set as a JSON array, optionally
// indented, for tooling that wants machine-readable diagnostics
// (SPEC_FULL's "Diagnostics JSON export"). The inkoc CLI has no flag that
// calls it.
func (d *Diagnostics) ToJSON(indent bool) (string, error) {
	reports := d.Reports()
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(reports, "", "  ")
	} else {
		data, err = json.Marshal(reports)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
