package domain

import (
	"encoding/json"
	"time"
)

// SettingsDateLayout is the fixed layout used for datetime values inside the
// serialized settings blob.
const SettingsDateLayout = "2006-01-02 15:04:05"

// DefaultProjectSettings returns the recognized settings keys with their
// default values. Unknown keys written by newer versions survive a
// decode/encode round trip untouched.
func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{data: map[string]any{
		"fdsnws_enable":            false,
		"fdsnws_url":               nil,
		"fdsnws_interval":          5.0, // minutes
		"hydws_enable":             false,
		"hydws_url":                nil,
		"hydws_interval":           5.0, // minutes
		"auto_schedule_enable":     true,
		"forecast_interval":        6.0, // hours
		"forecast_length":          6.0, // hours
		"forecast_start":           time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		"seismic_rate_interval":    1.0, // minutes
		"write_fc_results_to_disk": false,
	}}
}

// ProjectSettings is the per-project configuration blob. The core treats it
// as opaque: values are read and written by key, persisted as a JSON object
// with datetimes encoded using SettingsDateLayout.
type ProjectSettings struct {
	data map[string]any
}

// Get returns the value stored under key.
func (s ProjectSettings) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetTime returns the value under key when it is a datetime.
func (s ProjectSettings) GetTime(key string) (time.Time, bool) {
	t, ok := s.data[key].(time.Time)
	return t, ok
}

// Set stores value under key.
func (s *ProjectSettings) Set(key string, value any) {
	if s.data == nil {
		s.data = map[string]any{}
	}
	s.data[key] = value
}

// SetDefault stores value under key only when the key is absent.
func (s *ProjectSettings) SetDefault(key string, value any) {
	if s.data == nil {
		s.data = map[string]any{}
	}
	if _, ok := s.data[key]; !ok {
		s.data[key] = value
	}
}

// Len returns the number of stored keys.
func (s ProjectSettings) Len() int { return len(s.data) }

// Clone returns an independent copy of the settings blob.
func (s ProjectSettings) Clone() ProjectSettings {
	if s.data == nil {
		return ProjectSettings{}
	}
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return ProjectSettings{data: out}
}

// MarshalJSON encodes the blob with datetimes in the fixed layout.
func (s ProjectSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		if t, ok := v.(time.Time); ok {
			out[k] = t.Format(SettingsDateLayout)
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the blob, restoring values in the fixed datetime
// layout to time.Time.
func (s *ProjectSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(SettingsDateLayout, str); err == nil {
			raw[k] = t.UTC()
		}
	}
	s.data = raw
	return nil
}
