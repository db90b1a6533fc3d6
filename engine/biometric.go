// engine/biometric.go
package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/controlplane"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// CaptureState is the biometric enrollment state machine position.
type CaptureState string

const (
	StateIdle            CaptureState = "idle"
	StateAwaitingCapture CaptureState = "awaiting_capture"
	StateCaptured        CaptureState = "captured"
	StatePropagated      CaptureState = "propagated"
	StateVerified        CaptureState = "verified"
	StateCaptureTimedOut CaptureState = "capture_timed_out"
)

// CaptureResult is the outcome of one enrollment run. The caller must be
// able to tell "biometric recorded, device not yet synced" apart from
// "fully operational": only the latter lets the subject authenticate
// immediately.
type CaptureResult struct {
	State     CaptureState
	Device    model.Device
	Templates []string
	Targets   []model.TargetOutcome
}

// modalityCodes maps a requested modality to the vendor's device-specific
// scan code.
var modalityCodes = map[model.BiometricModality]int{
	model.ModalityFingerprint: 1,
	model.ModalityFace:        2,
}

// BiometricEnroller drives the capture sub-protocol:
//
//	Idle -> AwaitingCapture -> Captured -> Propagated -> Verified
//
// with CaptureTimedOut as the failure terminal. The capture call is
// long-running: the device blocks until a live subject presents the
// biometric or the device-side timeout elapses.
type BiometricEnroller struct {
	api             controlplane.API
	directory       Directory
	verifier        *Verifier
	chain           *Chain
	sync            *SyncTrigger
	captureAttempts int
	captureDelay    time.Duration
}

func NewBiometricEnroller(api controlplane.API, directory Directory, verifier *Verifier, chain *Chain, sync *SyncTrigger, captureAttempts int, captureDelay time.Duration) *BiometricEnroller {
	if captureAttempts < 1 {
		captureAttempts = 1
	}
	return &BiometricEnroller{
		api:             api,
		directory:       directory,
		verifier:        verifier,
		chain:           chain,
		sync:            sync,
		captureAttempts: captureAttempts,
		captureDelay:    captureDelay,
	}
}

// Enroll runs the full sub-protocol for the intent's subject: capture on a
// selected device, then push the captured biometric into each target
// terminal's access relation (a Grant-style strategy-chain mutation plus a
// best-effort device sync), then verify each relation.
func (b *BiometricEnroller) Enroll(ctx context.Context, intent model.Intent, captureDevice int64, targets []int64) (CaptureResult, error) {
	result := CaptureResult{State: StateIdle}

	device, err := b.selectDevice(ctx, intent.Modality, captureDevice)
	if err != nil {
		return result, err
	}
	result.Device = device

	// Idle -> AwaitingCapture: trigger the scan and block on it.
	result.State = StateAwaitingCapture
	logger.Info("Triggering biometric capture",
		zap.Int64("device", device.ID),
		zap.String("modality", string(intent.Modality)),
		zap.String("subject", intent.Subject.ExternalID))

	_, err = b.api.Call(ctx, http.MethodPost, fmt.Sprintf("devices/%d/scan", device.ID), nil, map[string]any{
		"user_id":   intent.Subject.ResolvedKey,
		"scan_type": modalityCodes[intent.Modality],
	})
	if err != nil {
		// The capture call timing out client-side does not mean the device
		// failed to store a template; the listing poll below decides.
		logger.Warn("Capture call did not return cleanly",
			zap.Int64("device", device.ID),
			zap.Error(err))
	}

	// AwaitingCapture -> Captured | CaptureTimedOut: the template listing
	// is authoritative, not the capture call's return value.
	captureVerifier := NewVerifier(b.verifier.reader, b.captureAttempts, b.captureDelay)
	templates, _, ok := captureVerifier.VerifyTemplates(ctx, intent.Subject.ResolvedKey)
	if !ok {
		result.State = StateCaptureTimedOut
		logger.Warn("Biometric capture timed out: no template appeared",
			zap.Int64("device", device.ID),
			zap.String("subject", intent.Subject.ExternalID))
		return result, nil
	}
	result.State = StateCaptured
	result.Templates = templates

	// Captured -> Propagated: push into each terminal's access relation.
	propagated := false
	for _, target := range targets {
		class, raw, strat := b.chain.Execute(ctx, intent, target)
		outcome := model.TargetOutcome{Terminal: target, StrategyUsed: strat}

		if class == model.ClassFailure {
			outcome.Detail = fmt.Sprintf("propagation failed: %v", raw)
			result.Targets = append(result.Targets, outcome)
			continue
		}
		propagated = true
		b.sync.Sync(ctx, intent.Subject, target)

		// Propagated -> Verified.
		record, verified := b.verifier.VerifyTerminal(ctx, intent.Subject.ResolvedKey, target, true)
		outcome.Verified = verified
		switch {
		case verified:
			outcome.Succeeded = true
		case class == model.ClassSuccess:
			// Mutation reported success but the relation is not yet
			// visible: recorded, not yet operational.
			outcome.Succeeded = true
			outcome.Detail = fmt.Sprintf("recorded but unverified after %d attempts", record.Attempts)
		default:
			outcome.Detail = fmt.Sprintf("ambiguous outcome not corroborated after %d attempts", record.Attempts)
		}
		result.Targets = append(result.Targets, outcome)
	}

	if propagated {
		result.State = StatePropagated
	}
	for _, t := range result.Targets {
		if t.Verified {
			result.State = StateVerified
			break
		}
	}

	return result, nil
}

// selectDevice picks the capture device. An explicit target wins. Without
// one: prefer a device declaring the requested modality as a capability;
// else the first device that is neither notification-only nor bound to a
// loopback address; else any device with a non-loopback address. The
// directory mixes functional readers with administrative/notification
// endpoints that must never be chosen.
func (b *BiometricEnroller) selectDevice(ctx context.Context, modality model.BiometricModality, explicit int64) (model.Device, error) {
	if explicit != 0 {
		return b.directory.Terminal(ctx, explicit)
	}

	devices, err := b.directory.Devices(ctx)
	if err != nil {
		return model.Device{}, err
	}

	for _, d := range devices {
		if d.HasCapability(string(modality)) && !d.NotifyOnly && !d.Loopback() {
			return d, nil
		}
	}
	for _, d := range devices {
		if !d.NotifyOnly && !d.Loopback() {
			return d, nil
		}
	}
	for _, d := range devices {
		if !d.Loopback() {
			return d, nil
		}
	}
	return model.Device{}, fmt.Errorf("no usable capture device in directory")
}
