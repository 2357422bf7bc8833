package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ParseTOML decodes a TOML config and returns the defaulted, validated Config.
// Unknown keys are an error so that typos do not silently fall back to defaults.
func ParseTOML(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(data), MaxConfigSize),
		}
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, &ParseError{Message: "unknown config keys", Detail: strict.String(), Err: err}
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, &ParseError{
				Message: "TOML syntax error",
				Detail:  fmt.Sprintf("line %d, column %d: %s", row, col, decodeErr.Error()),
				Err:     err,
			}
		}
		return nil, &ParseError{Message: "TOML decode error", Detail: err.Error(), Err: err}
	}

	for name, cmd := range cfg.Commands {
		if cmd.Link == "" {
			cmd.Link = name
			cfg.Commands[name] = cmd
		}
	}

	out := cfg.WithDefaults()
	if err := out.Validate(); err != nil {
		return nil, &ParseError{Message: "config validation failed", Detail: err.Error(), Err: err}
	}
	return &out, nil
}
