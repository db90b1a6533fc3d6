// engine/biometric_test.go
package engine_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/dev-rajatverma/doorward/engine"
	"github.com/dev-rajatverma/doorward/model"
	"github.com/dev-rajatverma/doorward/test/mock"
)

type enrollerFixture struct {
	api       *mock.MockAPI
	relations *mock.MockRelationStore
	reader    *mock.MockStateReader
	directory *mock.MockDirectory
	sender    *mock.MockCommandSender
	enroller  *engine.BiometricEnroller
}

func newEnrollerFixture() *enrollerFixture {
	f := &enrollerFixture{
		api:       new(mock.MockAPI),
		relations: new(mock.MockRelationStore),
		reader:    new(mock.MockStateReader),
		directory: new(mock.MockDirectory),
		sender:    new(mock.MockCommandSender),
	}
	chain := engine.NewChain(
		engine.NewControlPlaneStrategy(f.api),
		engine.NewDatastoreStrategy(f.relations),
	)
	verifier := engine.NewVerifier(f.reader, 2, time.Millisecond)
	sync := engine.NewSyncTrigger(f.directory, f.sender)
	f.enroller = engine.NewBiometricEnroller(f.api, f.directory, verifier, chain, sync, 2, time.Millisecond)
	return f
}

func biometricIntent() model.Intent {
	return model.Intent{
		Type:       model.IntentEnrollBiometric,
		Subject:    model.Subject{ExternalID: "EMP-1042", ResolvedKey: 4012},
		AuthMethod: model.AuthMethodFingerprint,
		Modality:   model.ModalityFingerprint,
		Schedule:   model.Schedule{ScheduleID: 1},
	}
}

func TestBiometricEnroller_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("Full path reaches the verified state", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Devices", tmock.Anything).Return([]model.Device{
			{ID: 5, Address: "10.1.20.5:4370", Capabilities: []string{"fingerprint"}},
		}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "devices/5/scan",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.reader.On("TemplateList", tmock.Anything, int64(4012)).
			Return([]string{"tpl-88"}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.directory.On("Terminal", tmock.Anything, int64(7)).
			Return(model.Device{ID: 7, Address: "10.1.20.7:4370"}, nil)
		f.sender.On("Send", tmock.Anything, tmock.Anything, tmock.Anything).Return(nil)
		f.reader.On("TerminalAuthList", tmock.Anything, int64(4012)).
			Return([]int64{7}, nil)

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, []int64{7})

		assert.NoError(t, err)
		assert.Equal(t, engine.StateVerified, result.State)
		assert.Equal(t, []string{"tpl-88"}, result.Templates)
		assert.True(t, result.Targets[0].Succeeded)
		assert.True(t, result.Targets[0].Verified)
	})

	t.Run("No template within the budget is a capture timeout", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Devices", tmock.Anything).Return([]model.Device{
			{ID: 5, Address: "10.1.20.5:4370", Capabilities: []string{"fingerprint"}},
		}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "devices/5/scan",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.reader.On("TemplateList", tmock.Anything, int64(4012)).
			Return([]string{}, nil)

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, []int64{7})

		assert.NoError(t, err)
		assert.Equal(t, engine.StateCaptureTimedOut, result.State)
		assert.Empty(t, result.Targets)
		// No propagation without a captured template.
		f.api.AssertNotCalled(t, "Call", tmock.Anything, http.MethodPost, "terminal_auth/add", tmock.Anything, tmock.Anything)
	})

	t.Run("Capture call error defers to the template listing", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Devices", tmock.Anything).Return([]model.Device{
			{ID: 5, Address: "10.1.20.5:4370", Capabilities: []string{"fingerprint"}},
		}, nil)
		// The scan call timing out client-side does not decide the outcome.
		f.api.On("Call", tmock.Anything, http.MethodPost, "devices/5/scan",
			tmock.Anything, tmock.Anything).Return(nil, errors.New("client timeout"))
		f.reader.On("TemplateList", tmock.Anything, int64(4012)).
			Return([]string{"tpl-88"}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.directory.On("Terminal", tmock.Anything, int64(7)).
			Return(model.Device{ID: 7, Address: "10.1.20.7:4370"}, nil)
		f.sender.On("Send", tmock.Anything, tmock.Anything, tmock.Anything).Return(nil)
		f.reader.On("TerminalAuthList", tmock.Anything, int64(4012)).
			Return([]int64{7}, nil)

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, []int64{7})

		assert.NoError(t, err)
		assert.Equal(t, engine.StateVerified, result.State)
	})

	t.Run("Failed propagation stays in the captured state", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Devices", tmock.Anything).Return([]model.Device{
			{ID: 5, Address: "10.1.20.5:4370", Capabilities: []string{"fingerprint"}},
		}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "devices/5/scan",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.reader.On("TemplateList", tmock.Anything, int64(4012)).
			Return([]string{"tpl-88"}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return(nil, errors.New("connection refused"))
		f.relations.On("FindRelation", tmock.Anything, int64(4012), int64(7), model.AuthMethodFingerprint).
			Return(false, errors.New("database unavailable"))

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, []int64{7})

		assert.NoError(t, err)
		assert.Equal(t, engine.StateCaptured, result.State)
		assert.False(t, result.Targets[0].Succeeded)
	})

	t.Run("Explicit capture device wins", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Terminal", tmock.Anything, int64(9)).
			Return(model.Device{ID: 9, Address: "10.1.20.9:4370"}, nil)
		f.api.On("Call", tmock.Anything, http.MethodPost, "devices/9/scan",
			tmock.Anything, tmock.Anything).Return("Success", nil)
		f.reader.On("TemplateList", tmock.Anything, int64(4012)).
			Return([]string{}, nil)

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 9, nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), result.Device.ID)
		f.directory.AssertNotCalled(t, "Devices", tmock.Anything)
	})
}

func TestBiometricEnroller_DeviceSelection(t *testing.T) {
	ctx := context.Background()

	// The directory mixes functional readers with notification endpoints
	// and loopback-bound administrative entries.
	mixed := []model.Device{
		{ID: 1, Name: "lobby-notifier", Address: "10.1.20.1:4370", NotifyOnly: true, Capabilities: []string{"fingerprint"}},
		{ID: 2, Name: "admin-local", Address: "127.0.0.1:4370", Capabilities: []string{"fingerprint"}},
		{ID: 3, Name: "east-door", Address: "10.1.20.3:4370"},
		{ID: 4, Name: "hr-enroll-station", Address: "10.1.20.4:4370", Capabilities: []string{"fingerprint", "face"}},
	}

	selectionCases := []struct {
		name    string
		devices []model.Device
		want    int64
	}{
		{"Modality capability wins over plain readers", mixed, 4},
		{"Plain reader beats notify-only and loopback", mixed[:3], 3},
		{"Notify-only non-loopback is the last resort", mixed[:2], 1},
	}

	for _, tc := range selectionCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newEnrollerFixture()
			f.directory.On("Devices", tmock.Anything).Return(tc.devices, nil)
			f.api.On("Call", tmock.Anything, tmock.Anything, tmock.Anything,
				tmock.Anything, tmock.Anything).Return("Success", nil)
			f.reader.On("TemplateList", tmock.Anything, int64(4012)).
				Return([]string{}, nil)

			result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, nil)

			assert.NoError(t, err)
			assert.Equal(t, tc.want, result.Device.ID)
		})
	}

	t.Run("Loopback-only directory yields no capture device", func(t *testing.T) {
		f := newEnrollerFixture()
		f.directory.On("Devices", tmock.Anything).Return([]model.Device{
			{ID: 2, Name: "admin-local", Address: "127.0.0.1:4370"},
		}, nil)

		result, err := f.enroller.Enroll(ctx, biometricIntent(), 0, nil)

		assert.Error(t, err)
		assert.Equal(t, engine.StateIdle, result.State)
	})
}
