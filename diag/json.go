package diag

import (
	"encoding/json"
	"io"

	"masmlint/span"
)

// jsonLabel mirrors Label with 1-based line/column and the span's
// [start, end) byte offsets, matching §6's JSON diagnostic format.
type jsonLabel struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Span    [2]uint32 `json:"span"`
	Message string `json:"message"`
}

type jsonDiagnostic struct {
	Level           string      `json:"level"`
	Code            ErrorCode   `json:"code"`
	Message         string      `json:"message"`
	PrimaryLabel    jsonLabel   `json:"primaryLabel"`
	SecondaryLabels []jsonLabel `json:"secondaryLabels"`
	Note            *string     `json:"note,omitempty"`
	Help            *string     `json:"help,omitempty"`
}

func toJSONLabel(sm *span.SourceMap, lbl Label) jsonLabel {
	loc, _ := sm.SpanToLocation(lbl.Span)
	return jsonLabel{
		File:    loc.Path,
		Line:    loc.Line,
		Col:     loc.Col,
		Span:    [2]uint32{lbl.Span.Lo, lbl.Span.Hi},
		Message: lbl.Message,
	}
}

// EmitJSON writes every non-cancelled diagnostic to w as a JSON array. On
// success (no diagnostics) it prints "[]", per §6.
func (s *Sink) EmitJSON(sm *span.SourceMap, w io.Writer) error {
	diags := s.Diagnostics()
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		jd := jsonDiagnostic{
			Level:        d.Level.String(),
			Code:         d.Code,
			Message:      d.Message,
			PrimaryLabel: toJSONLabel(sm, d.Primary),
			Note:         d.NoteText,
			Help:         d.HelpText,
		}
		for _, sec := range d.Secondary {
			jd.SecondaryLabels = append(jd.SecondaryLabels, toJSONLabel(sm, sec))
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
