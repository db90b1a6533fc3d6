// engine/verifier.go
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// StateReader re-reads authoritative access state from the external
// system. Both listings are the system's own view after its internal
// replication, not the mutating call's claim.
type StateReader interface {
	// TerminalAuthList returns the terminals on which the subject
	// currently has an authentication relation.
	TerminalAuthList(ctx context.Context, subjectKey int64) ([]int64, error)
	// TemplateList returns the identifiers of the subject's stored
	// biometric templates.
	TemplateList(ctx context.Context, subjectKey int64) ([]string, error)
}

// Verifier confirms that a mutation is actually visible in the
// authoritative listing. The mutating call's own report is not
// trustworthy, so every non-Failure outcome is checked here: bounded
// re-reads with a fixed delay absorb the external system's replication
// lag. The verifier never mutates state, and exhausting the budget is a
// false return, not an error.
type Verifier struct {
	reader      StateReader
	maxAttempts int
	delay       time.Duration
}

func NewVerifier(reader StateReader, maxAttempts int, delay time.Duration) *Verifier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Verifier{reader: reader, maxAttempts: maxAttempts, delay: delay}
}

// VerifyTerminal polls the subject's terminal-auth listing until the
// target appears (expectPresent) or disappears (!expectPresent), or the
// attempt budget runs out.
func (v *Verifier) VerifyTerminal(ctx context.Context, subjectKey, target int64, expectPresent bool) (model.VerificationRecord, bool) {
	record := model.VerificationRecord{Target: target, ExpectedSeen: expectPresent}

	for attempt := 1; attempt <= v.maxAttempts; attempt++ {
		record.Attempts = attempt

		terminals, err := v.reader.TerminalAuthList(ctx, subjectKey)
		if err != nil {
			logger.Warn("Verification read failed",
				zap.Int64("subjectKey", subjectKey),
				zap.Int64("target", target),
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else if containsTerminal(terminals, target) == expectPresent {
			record.Converged = true
			logger.Debug("Verification converged",
				zap.Int64("subjectKey", subjectKey),
				zap.Int64("target", target),
				zap.Int("attempts", attempt))
			return record, true
		}

		if attempt < v.maxAttempts {
			if err := sleepContext(ctx, v.delay); err != nil {
				return record, false
			}
		}
	}

	logger.Warn("Verification budget exhausted without convergence",
		zap.Int64("subjectKey", subjectKey),
		zap.Int64("target", target),
		zap.Int("attempts", record.Attempts))
	return record, false
}

// VerifyTemplates polls the subject's biometric template listing until it
// is non-empty or the attempt budget runs out. Returns the observed
// template identifiers on convergence.
func (v *Verifier) VerifyTemplates(ctx context.Context, subjectKey int64) ([]string, model.VerificationRecord, bool) {
	record := model.VerificationRecord{ExpectedSeen: true}

	for attempt := 1; attempt <= v.maxAttempts; attempt++ {
		record.Attempts = attempt

		templates, err := v.reader.TemplateList(ctx, subjectKey)
		if err != nil {
			logger.Warn("Template listing read failed",
				zap.Int64("subjectKey", subjectKey),
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else if len(templates) > 0 {
			record.Converged = true
			return templates, record, true
		}

		if attempt < v.maxAttempts {
			if err := sleepContext(ctx, v.delay); err != nil {
				return nil, record, false
			}
		}
	}

	return nil, record, false
}

func containsTerminal(terminals []int64, target int64) bool {
	for _, t := range terminals {
		if t == target {
			return true
		}
	}
	return false
}

// sleepContext waits for d or until ctx is cancelled, whichever is first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
