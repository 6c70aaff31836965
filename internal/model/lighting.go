package model

// Light level and rotation bounds of a point.
const (
	LightLevelMin = 0
	LightLevelMax = 65535
	RotationMin   = 0
	RotationMax   = 360
)

// Device — контроллер на шине светильников.
type Device struct {
	ID            int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Adr           int   `gorm:"uniqueIndex;not null" json:"adr"`
	PairsOf       int   `gorm:"not null;default:0" json:"-"`
	EndpointCount int   `gorm:"not null" json:"endpoint_count"`
}

// Point — канал устройства с уровнем и геометрией на плане.
type Point struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID       int64   `gorm:"not null;index" json:"device_id"`
	Device         *Device `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DevicePosition int     `gorm:"not null" json:"device_position"`
	Val            int     `gorm:"not null;default:0" json:"val"`
	Width          float32 `gorm:"not null;default:0" json:"width"`
	Height         float32 `gorm:"not null;default:0" json:"height"`
	X              float32 `gorm:"not null;default:0" json:"x"`
	Y              float32 `gorm:"not null;default:0" json:"y"`
	Rotation       float32 `gorm:"not null;default:0" json:"rotation"`
	Watts          float32 `gorm:"not null;default:0" json:"watts"`
	Active         bool    `gorm:"not null;default:false" json:"active"`
	Tag            *string `json:"tag"`
}

// Preset — именованный снимок уровней, принадлежит пользователю.
type Preset struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"not null;index" json:"-"`
	User       *Credential `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	PresetName string      `gorm:"not null" json:"preset_name"`
	Favorite   bool        `gorm:"not null;default:false" json:"favorite"`
	Active     bool        `gorm:"not null;default:false" json:"-"`
	Icon       *string     `json:"icon"`
}

// PresetItem — уровень одной точки в пресете.
type PresetItem struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	PresetID int64   `gorm:"not null;index"`
	Preset   *Preset `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PointID  int64   `gorm:"not null;index"`
	Val      int     `gorm:"not null"`
}

// NewPreset — тело POST /presets.
type NewPreset struct {
	PresetName string  `json:"preset_name"`
	Favorite   bool    `json:"favorite"`
	Icon       *string `json:"icon"`
}

// QueryByID — тело {"id": N}.
type QueryByID struct {
	ID int64 `json:"id"`
}

// NoActivePreset is reported when the user has no active preset.
const NoActivePreset int64 = -1
