package toml

import "fmt"

const currentSchemaVersion = 1

type stateSchema struct {
	Version int               `toml:"version"`
	Slots   map[string]string `toml:"slots"`
}

func (s *stateSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Slots == nil {
		s.Slots = map[string]string{}
	}
}

func (s stateSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
