package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sevigo/reviewgate/internal/core"
)

// RenderJSON writes the report as indented JSON, one document per run.
func RenderJSON(w io.Writer, r core.ReviewReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
