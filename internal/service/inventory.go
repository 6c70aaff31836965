package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"LightAdmin/internal/model"
)

// Inventory reports the controllers currently present on the fixture bus.
type Inventory interface {
	Scan(ctx context.Context) ([]model.Device, error)
}

// FileInventory читает список контроллеров из YAML:
//
//	devices:
//	  - adr: 64
//	    endpoints: 8
//	    pairs_of: 0
type FileInventory struct {
	Path string
}

type inventoryFile struct {
	Devices []struct {
		Adr       int `yaml:"adr"`
		Endpoints int `yaml:"endpoints"`
		PairsOf   int `yaml:"pairs_of"`
	} `yaml:"devices"`
}

// Scan перечитывает файл; отсутствующий путь означает пустую шину.
func (f FileInventory) Scan(_ context.Context) ([]model.Device, error) {
	if f.Path == "" {
		return []model.Device{}, nil
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Device{}, nil
		}
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	var inv inventoryFile
	if err := yaml.Unmarshal(b, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", f.Path, err)
	}
	out := make([]model.Device, 0, len(inv.Devices))
	seen := make(map[int]bool, len(inv.Devices))
	for _, d := range inv.Devices {
		if d.Endpoints < 0 || d.PairsOf < 0 {
			return nil, fmt.Errorf("inventory device %d: negative counts", d.Adr)
		}
		if seen[d.Adr] {
			return nil, fmt.Errorf("inventory device %d listed twice", d.Adr)
		}
		seen[d.Adr] = true
		out = append(out, model.Device{Adr: d.Adr, EndpointCount: d.Endpoints, PairsOf: d.PairsOf})
	}
	return out, nil
}
