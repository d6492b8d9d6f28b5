package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDefaultProjectSettings(t *testing.T) {
	s := DefaultProjectSettings()
	if v, ok := s.Get("forecast_interval"); !ok || v != 6.0 {
		t.Fatalf("forecast_interval: got %v, %v", v, ok)
	}
	if v, ok := s.Get("auto_schedule_enable"); !ok || v != true {
		t.Fatalf("auto_schedule_enable: got %v, %v", v, ok)
	}
	start, ok := s.GetTime("forecast_start")
	if !ok || !start.Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("forecast_start: got %v, %v", start, ok)
	}
}

func TestProjectSettingsSetDefault(t *testing.T) {
	var s ProjectSettings
	s.SetDefault("forecast_length", 12.0)
	s.SetDefault("forecast_length", 24.0)
	if v, _ := s.Get("forecast_length"); v != 12.0 {
		t.Fatalf("SetDefault must not overwrite, got %v", v)
	}
	s.Set("forecast_length", 24.0)
	if v, _ := s.Get("forecast_length"); v != 24.0 {
		t.Fatalf("Set must overwrite, got %v", v)
	}
}

func TestProjectSettingsJSONRoundTrip(t *testing.T) {
	s := DefaultProjectSettings()
	s.Set("fdsnws_url", "http://example.org/fdsnws")
	s.Set("forecast_start", time.Date(2022, 4, 21, 15, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decodedMap map[string]any
	if err := json.Unmarshal(raw, &decodedMap); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if got := decodedMap["forecast_start"]; got != "2022-04-21 15:00:00" {
		t.Fatalf("datetime must serialize in the fixed layout, got %v", got)
	}

	var decoded ProjectSettings
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	start, ok := decoded.GetTime("forecast_start")
	if !ok || !start.Equal(time.Date(2022, 4, 21, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("datetime must decode back to time.Time, got %v, %v", start, ok)
	}
	if v, _ := decoded.Get("fdsnws_url"); v != "http://example.org/fdsnws" {
		t.Fatalf("plain strings must survive, got %v", v)
	}
	if decoded.Len() != s.Len() {
		t.Fatalf("key count changed: %d != %d", decoded.Len(), s.Len())
	}
}

func TestProjectSettingsUnknownKeysSurvive(t *testing.T) {
	raw := []byte(`{"future_knob": 42, "forecast_start": "2023-01-02 03:04:05"}`)
	var s ProjectSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := s.Get("future_knob"); !ok || v != 42.0 {
		t.Fatalf("unknown keys must be preserved, got %v, %v", v, ok)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal out: %v", err)
	}
	if m["future_knob"] != 42.0 {
		t.Fatal("unknown keys must survive a round trip")
	}
	if m["forecast_start"] != "2023-01-02 03:04:05" {
		t.Fatalf("datetime layout changed: %v", m["forecast_start"])
	}
}

func TestProjectSettingsCloneIsIndependent(t *testing.T) {
	s := DefaultProjectSettings()
	cp := s.Clone()
	cp.Set("forecast_interval", 1.0)
	if v, _ := s.Get("forecast_interval"); v != 6.0 {
		t.Fatalf("clone must not write through, got %v", v)
	}
}
