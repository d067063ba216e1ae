package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits config files to prevent memory exhaustion (1 MiB).
const MaxInputSize = 1 << 20

// unmarshalStrict decodes data into v, rejecting unknown fields. Fields
// absent from data keep the values v already holds.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyConfig
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxInputSize)
	}
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}
