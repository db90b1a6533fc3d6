// engine/devicesync.go
package engine

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// Directory resolves terminal and zone identity to directory entries.
type Directory interface {
	Terminal(ctx context.Context, id int64) (model.Device, error)
	Devices(ctx context.Context) ([]model.Device, error)
	ZoneTerminals(ctx context.Context, zoneID int64) ([]int64, error)
}

// CommandSender delivers one short textual command to a device's control
// channel.
type CommandSender interface {
	Send(ctx context.Context, address, command string) error
}

// TCPSender writes the command over a plain TCP connection; the vendor's
// terminals accept line-oriented text on their control port.
type TCPSender struct {
	Timeout time.Duration
}

func (s *TCPSender) Send(ctx context.Context, address, command string) error {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to reach device at %s: %w", address, err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := fmt.Fprintf(conn, "%s\r\n", command); err != nil {
		return fmt.Errorf("failed to deliver command to %s: %w", address, err)
	}
	return nil
}

// SyncTrigger pushes committed state to a physical terminal. Strictly
// best-effort and fire-and-forget: a verified state change stays verified
// whether or not the device acknowledged the push, and the convergence
// verifier checks the relation record, not device-side state.
type SyncTrigger struct {
	directory Directory
	sender    CommandSender
}

func NewSyncTrigger(directory Directory, sender CommandSender) *SyncTrigger {
	return &SyncTrigger{directory: directory, sender: sender}
}

// Sync resolves the terminal's address and sends the user-sync command.
// Every failure is logged and swallowed.
func (t *SyncTrigger) Sync(ctx context.Context, subject model.Subject, terminal int64) {
	device, err := t.directory.Terminal(ctx, terminal)
	if err != nil {
		logger.Warn("Device sync skipped: address resolution failed",
			zap.Int64("terminal", terminal),
			zap.String("subject", subject.ExternalID),
			zap.Error(err))
		return
	}

	command := fmt.Sprintf("SYNCUSER %d", subject.ResolvedKey)
	if err := t.sender.Send(ctx, device.Address, command); err != nil {
		logger.Warn("Device sync delivery failed",
			zap.Int64("terminal", terminal),
			zap.String("address", device.Address),
			zap.String("subject", subject.ExternalID),
			zap.Error(err))
		return
	}

	logger.Debug("Device sync command delivered",
		zap.Int64("terminal", terminal),
		zap.String("address", device.Address))
}
