// controlplane/state_reader.go
package controlplane

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dev-rajatverma/doorward/model"
)

// StateReader reads authoritative access state back from the control
// plane. It backs convergence verification, so it must reflect what the
// vendor system itself believes, not what a mutating call claimed.
type StateReader struct {
	api API
}

func NewStateReader(api API) *StateReader {
	return &StateReader{api: api}
}

// TerminalAuthList returns the terminals on which the subject currently
// holds an authentication relation.
func (r *StateReader) TerminalAuthList(ctx context.Context, subjectKey int64) ([]int64, error) {
	raw, err := r.api.Call(ctx, http.MethodGet, fmt.Sprintf("users/%d/terminal_auth", subjectKey), nil, nil)
	if err != nil {
		return nil, err
	}

	var terminals []int64
	for _, rec := range extractRecords(raw) {
		for _, key := range []string{"terminal_id", "device_id", "id"} {
			if v, found := rec[key]; found {
				if n, ok := toInt64(v); ok && n > 0 {
					terminals = append(terminals, n)
					break
				}
			}
		}
	}
	return terminals, nil
}

// TemplateList returns the identifiers of the subject's stored biometric
// templates.
func (r *StateReader) TemplateList(ctx context.Context, subjectKey int64) ([]string, error) {
	raw, err := r.api.Call(ctx, http.MethodGet, fmt.Sprintf("users/%d/templates", subjectKey), nil, nil)
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, rec := range extractRecords(raw) {
		for _, key := range []string{"template_id", "id"} {
			if v, found := rec[key]; found {
				templates = append(templates, fmt.Sprintf("%v", v))
				break
			}
		}
	}
	return templates, nil
}

// extractRecords tolerates the vendor's two list shapes: a bare JSON array
// of records, or an object wrapping the array under "records" or "rows".
func extractRecords(raw model.RawOutcome) []map[string]any {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, key := range []string{"records", "rows", "data"} {
			if inner, found := v[key]; found {
				if list, ok := inner.([]any); ok {
					items = list
					break
				}
			}
		}
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
