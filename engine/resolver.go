// engine/resolver.go
package engine

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/controlplane"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// SubjectStore is the direct-datastore side of subject resolution.
type SubjectStore interface {
	// KeyByExternalID looks up the internal key by the exact external
	// identifier. Returns ErrSubjectNotFound when no row matches.
	KeyByExternalID(ctx context.Context, externalID string) (int64, error)
	// KeyByNumericID looks up the internal key treating the identifier as
	// the numeric key itself. Returns ErrSubjectNotFound when no row
	// matches.
	KeyByNumericID(ctx context.Context, numericID int64) (int64, error)
}

// Resolver maps an external subject identifier to the control plane's
// internal numeric key. The remote lookup is authoritative when it answers
// with a well-formed positive key; anything else (transport error, vendor
// error, sentinel like -1) falls back to a direct datastore read. Purely a
// read: resolution never mutates anything, and a NotFound is terminal for
// the enclosing operation.
type Resolver struct {
	api   controlplane.API
	store SubjectStore
}

func NewResolver(api controlplane.API, store SubjectStore) *Resolver {
	return &Resolver{api: api, store: store}
}

// Resolve returns the internal numeric key for externalID, or
// ErrSubjectNotFound when neither the remote path nor the datastore path
// can identify the subject.
func (r *Resolver) Resolve(ctx context.Context, externalID string) (int64, error) {
	raw, err := r.api.Call(ctx, http.MethodGet, "users/lookup", map[string]string{"external_id": externalID}, nil)
	if err != nil {
		logger.Warn("Remote subject lookup failed, falling back to datastore",
			zap.String("externalID", externalID),
			zap.Error(err))
	} else if key := extractKey(raw); key > 0 {
		return key, nil
	} else {
		logger.Warn("Remote subject lookup returned no usable key, falling back to datastore",
			zap.String("externalID", externalID),
			zap.Any("raw", raw))
	}

	key, err := r.store.KeyByExternalID(ctx, externalID)
	if err == nil && key > 0 {
		return key, nil
	}

	// Fully numeric identifiers may already be the internal key.
	if numericID, convErr := strconv.ParseInt(externalID, 10, 64); convErr == nil {
		key, err = r.store.KeyByNumericID(ctx, numericID)
		if err == nil && key > 0 {
			return key, nil
		}
	}

	logger.Error("Subject could not be resolved", zap.String("externalID", externalID))
	return 0, doorward_errors.ErrSubjectNotFound
}

// extractKey pulls a positive numeric key out of whatever shape the remote
// lookup answered with. Sentinel values like -1 are treated as not found.
func extractKey(raw model.RawOutcome) int64 {
	switch v := raw.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case map[string]any:
		for _, key := range []string{"user_id", "id", "key"} {
			if field, found := lookupKey(v, key); found {
				if n, ok := asNumber(field); ok {
					return int64(n)
				}
			}
		}
	}
	return 0
}
