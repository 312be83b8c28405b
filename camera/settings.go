package camera

import "sync"

// Property is one of the closed enumeration of tunable keys. String()
// returns the wire name used by /settings and TOML.
type Property int

const (
	EdgeDetectionSeconds Property = iota
	DebounceSeconds
	TriggerDelay
	TriggerThreshold
	ClipLengthSeconds
	BayerModeProperty
	Width
	Height
)

var propertyNames = map[Property]string{
	EdgeDetectionSeconds: "edge_detection_seconds",
	DebounceSeconds:      "debounce_seconds",
	TriggerDelay:         "trigger_delay",
	TriggerThreshold:     "trigger_threshold",
	ClipLengthSeconds:    "clip_length_seconds",
	BayerModeProperty:    "bayer_mode",
	Width:                "width",
	Height:               "height",
}

// AllProperties lists every recognized property.
var AllProperties = []Property{
	EdgeDetectionSeconds, DebounceSeconds, TriggerDelay, TriggerThreshold,
	ClipLengthSeconds, BayerModeProperty, Width, Height,
}

// String returns the property's wire name.
func (p Property) String() string {
	return propertyNames[p]
}

// PropertyByName resolves a wire name back to a Property. ok is false for
// any name outside the closed enumeration; callers should silently ignore
// unknown names rather than error on them.
func PropertyByName(name string) (Property, bool) {
	for p, n := range propertyNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// defaultSettings holds the factory default values.
var defaultSettings = map[Property]float64{
	EdgeDetectionSeconds: 2.0,
	DebounceSeconds:      1.0,
	TriggerDelay:         5.0,
	TriggerThreshold:     15.0,
	ClipLengthSeconds:    30.0,
	BayerModeProperty:    0,
	Width:                0,
	Height:               0,
}

// Settings is the mutex-guarded property map shared between HTTP handler
// goroutines (writers) and the capture worker (reader at reconfiguration
// points).
type Settings struct {
	mu     sync.RWMutex
	values map[Property]float64
}

// NewSettings returns a Settings map pre-filled with the factory defaults.
func NewSettings() *Settings {
	values := make(map[Property]float64, len(defaultSettings))
	for p, v := range defaultSettings {
		values[p] = v
	}
	return &Settings{values: values}
}

// Get returns the current value of a property.
func (s *Settings) Get(p Property) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[p]
}

// Set overwrites the value of a property. Callers still need a subsequent
// ApplyPropertyChange (on Camera) for the worker to pick it up.
func (s *Settings) Set(p Property, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[p] = value
}

// Snapshot returns a copy of the full property map, keyed by wire name —
// the shape /settings GET responds with.
func (s *Settings) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.values))
	for p, v := range s.values {
		out[p.String()] = v
	}
	return out
}
