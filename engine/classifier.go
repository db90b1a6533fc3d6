// engine/classifier.go
package engine

import (
	"strconv"
	"strings"

	"github.com/dev-rajatverma/doorward/model"
)

// Classify normalizes a raw vendor response into Success, Failure or
// Ambiguous. The vendor's success signal is endpoint-specific: some
// endpoints answer with a bare boolean, some with a generated record id,
// some with prose, some with a JSON object. Rules are applied in order and
// the first match wins.
//
// Ambiguous means "no explicit failure, no explicit success". The vendor
// conflates "no error" with "success", and its "Failed" string is returned
// both for genuine errors and for successful updates of a pre-existing
// record, so anything that is not an unambiguous Failure still has to be
// corroborated by convergence verification before it is reported upstream.
func Classify(raw model.RawOutcome) model.Classification {
	switch v := raw.(type) {
	case bool:
		if v {
			return model.ClassSuccess
		}
		return model.ClassFailure
	case int:
		return classifyNumber(float64(v))
	case int64:
		return classifyNumber(float64(v))
	case float64:
		return classifyNumber(v)
	case string:
		return classifyString(v)
	case map[string]any:
		return classifyObject(v)
	case nil:
		return model.ClassAmbiguous
	default:
		return model.ClassAmbiguous
	}
}

// classifyNumber covers endpoints that answer with a generated identifier
// or a pass/record number: strictly positive means the record took.
func classifyNumber(n float64) model.Classification {
	if n > 0 {
		return model.ClassSuccess
	}
	return model.ClassFailure
}

func classifyString(s string) model.Classification {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.ClassAmbiguous
	}

	// Numeric strings carry the same identifier semantics as numbers.
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return classifyNumber(n)
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "fail") || strings.Contains(lower, "error") || lower == "false" {
		return model.ClassFailure
	}
	if strings.Contains(lower, "success") || strings.Contains(lower, "true") {
		return model.ClassSuccess
	}
	return model.ClassAmbiguous
}

func classifyObject(obj map[string]any) model.Classification {
	// Conventional success keys first.
	for _, key := range []string{"success", "ok", "result"} {
		if v, found := lookupKey(obj, key); found {
			switch c := Classify(v); c {
			case model.ClassSuccess, model.ClassFailure:
				return c
			}
		}
	}

	// Vendor error-code field: zero means clean, anything else is a real
	// error signal.
	for _, key := range []string{"ecode", "error_code", "errcode"} {
		if v, found := lookupKey(obj, key); found {
			if n, ok := asNumber(v); ok {
				if n == 0 {
					return model.ClassSuccess
				}
				return model.ClassFailure
			}
		}
	}

	// Vendor return-message field, scanned for the same lexemes as bare
	// strings.
	for _, key := range []string{"message", "msg", "return_message", "retmsg"} {
		if v, found := lookupKey(obj, key); found {
			if s, ok := v.(string); ok {
				switch c := classifyString(s); c {
				case model.ClassSuccess, model.ClassFailure:
					return c
				}
			}
		}
	}

	// A positive identifier field is an implicit success signal.
	for _, key := range []string{"id", "record_id", "pass_id", "user_id"} {
		if v, found := lookupKey(obj, key); found {
			if n, ok := asNumber(v); ok && n > 0 {
				return model.ClassSuccess
			}
		}
	}

	return model.ClassAmbiguous
}

// lookupKey finds a key case-insensitively; the vendor is not consistent
// about field casing across endpoints.
func lookupKey(obj map[string]any, key string) (any, bool) {
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
