package model

// Device is a light controller found on the fixture bus.
type Device struct {
	ID            int64 `json:"id"`
	Adr           int   `json:"adr"`
	EndpointCount int   `json:"endpoint_count"`
}

// Point — одна световая точка (канал устройства) с геометрией для плана помещения.
type Point struct {
	ID             int64   `json:"id"`
	DeviceID       int64   `json:"device_id"`
	DevicePosition int     `json:"device_position"`
	Val            int     `json:"val"`
	Width          float32 `json:"width"`
	Height         float32 `json:"height"`
	X              float32 `json:"x"`
	Y              float32 `json:"y"`
	Rotation       float32 `json:"rotation"`
	Watts          float32 `json:"watts"`
	Active         bool    `json:"active"`
	Tag            *string `json:"tag"`
}

// NewPreset is the body for creating a preset.
type NewPreset struct {
	PresetName string  `json:"preset_name"`
	Favorite   bool    `json:"favorite"`
	Icon       *string `json:"icon"`
}

// Preset is a named snapshot of light levels.
type Preset struct {
	ID         int64   `json:"id"`
	PresetName string  `json:"preset_name"`
	Favorite   bool    `json:"favorite"`
	Icon       *string `json:"icon"`
}

// QueryByID is the generic {"id": N} request/response body.
type QueryByID struct {
	ID int64 `json:"id"`
}

// NoActivePreset is returned by GET /presets/active when nothing is active.
const NoActivePreset int64 = -1
