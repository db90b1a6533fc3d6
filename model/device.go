// model/device.go
package model

import "strings"

// Device is a directory entry for a physical terminal: a door reader, a
// biometric capture unit, or an administrative/notification endpoint that
// must never be selected for capture.
type Device struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"` // host or host:port of the control channel
	Capabilities []string `json:"capabilities,omitempty"`
	NotifyOnly   bool     `json:"notify_only,omitempty"`
}

// HasCapability reports whether the device declares the given capability
// (e.g. "fingerprint", "face"). Matching is case-insensitive.
func (d Device) HasCapability(cap string) bool {
	for _, c := range d.Capabilities {
		if strings.EqualFold(c, cap) {
			return true
		}
	}
	return false
}

// Loopback reports whether the device's control channel is bound to a
// loopback address. The directory mixes functional readers with local
// administrative endpoints; loopback-bound entries are never real doors.
func (d Device) Loopback() bool {
	host := d.Address
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host == "127.0.0.1" || host == "localhost" || host == "::1"
}
