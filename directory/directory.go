// directory/directory.go
package directory

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/controlplane"
	"github.com/dev-rajatverma/doorward/db"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// Service resolves terminal and zone names to identifiers, addresses and
// capabilities. Directory data is configuration, so entries are cached in
// Redis with a short TTL; access state is never cached.
type Service struct {
	api controlplane.API
}

func NewService(api controlplane.API) *Service {
	return &Service{api: api}
}

// Terminal returns the directory entry for a terminal id.
func (s *Service) Terminal(ctx context.Context, id int64) (model.Device, error) {
	if db.RedisClient != nil {
		if cached, err := db.GetCachedDevice(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}

	raw, err := s.api.Call(ctx, http.MethodGet, fmt.Sprintf("devices/%d", id), nil, nil)
	if err != nil {
		return model.Device{}, err
	}

	rec, ok := raw.(map[string]any)
	if !ok {
		return model.Device{}, doorward_errors.ErrTerminalNotFound
	}
	device := parseDevice(rec)
	if device.ID == 0 {
		return model.Device{}, doorward_errors.ErrTerminalNotFound
	}

	if db.RedisClient != nil {
		if err := db.CacheDevice(ctx, &device); err != nil {
			logger.Warn("Failed to cache device", zap.Int64("deviceID", device.ID), zap.Error(err))
		}
	}
	return device, nil
}

// TerminalByName resolves a terminal by its directory name, or by numeric
// id when the name is fully numeric.
func (s *Service) TerminalByName(ctx context.Context, nameOrID string) (model.Device, error) {
	if id, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		return s.Terminal(ctx, id)
	}

	devices, err := s.Devices(ctx)
	if err != nil {
		return model.Device{}, err
	}
	for _, d := range devices {
		if strings.EqualFold(d.Name, nameOrID) {
			return d, nil
		}
	}
	return model.Device{}, doorward_errors.ErrTerminalNotFound
}

// Devices lists every directory entry, functional readers and
// administrative endpoints alike. Callers apply their own selection
// policy.
func (s *Service) Devices(ctx context.Context) ([]model.Device, error) {
	raw, err := s.api.Call(ctx, http.MethodGet, "devices", nil, nil)
	if err != nil {
		return nil, err
	}

	var devices []model.Device
	for _, rec := range extractList(raw) {
		if device := parseDevice(rec); device.ID != 0 {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

// ZoneTerminals expands a terminal group to its member terminal ids.
func (s *Service) ZoneTerminals(ctx context.Context, zoneID int64) ([]int64, error) {
	raw, err := s.api.Call(ctx, http.MethodGet, fmt.Sprintf("zones/%d/terminals", zoneID), nil, nil)
	if err != nil {
		return nil, err
	}

	var terminals []int64
	for _, rec := range extractList(raw) {
		for _, key := range []string{"terminal_id", "device_id", "id"} {
			if v, found := rec[key]; found {
				if n, ok := v.(float64); ok && n > 0 {
					terminals = append(terminals, int64(n))
					break
				}
			}
		}
	}
	if len(terminals) == 0 {
		return nil, doorward_errors.ErrZoneNotFound
	}
	return terminals, nil
}

func parseDevice(rec map[string]any) model.Device {
	device := model.Device{}
	for _, key := range []string{"device_id", "terminal_id", "id"} {
		if v, found := rec[key]; found {
			if n, ok := v.(float64); ok {
				device.ID = int64(n)
				break
			}
		}
	}
	if v, ok := rec["name"].(string); ok {
		device.Name = v
	}
	for _, key := range []string{"address", "ip", "host"} {
		if v, ok := rec[key].(string); ok && v != "" {
			device.Address = v
			break
		}
	}
	if caps, ok := rec["capabilities"].([]any); ok {
		for _, c := range caps {
			if cs, ok := c.(string); ok {
				device.Capabilities = append(device.Capabilities, cs)
			}
		}
	}
	for _, key := range []string{"notify_only", "notification_only"} {
		if v, ok := rec[key].(bool); ok {
			device.NotifyOnly = v
			break
		}
	}
	return device
}

func extractList(raw model.RawOutcome) []map[string]any {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, key := range []string{"records", "rows", "data", "devices"} {
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
