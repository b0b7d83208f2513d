package distconfig

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Parse decodes a dist config TOML fragment (the `[dist]` table body of a
// workspace Cargo.toml, a package's `[package.metadata.dist]`, or a
// standalone dist.toml section), rejecting any key distconfig does not
// recognize.
func Parse(source string, data []byte) (DistConfig, error) {
	var cfg DistConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return DistConfig{}, &UnknownOption{Source: source, Detail: strictErr.Error()}
		}
		return DistConfig{}, fmt.Errorf("distconfig: parse %s: %w", source, err)
	}
	if err := Validate(cfg); err != nil {
		return DistConfig{}, &InvalidValue{Source: source, Cause: err}
	}
	return cfg, nil
}

// ParseOverrides decodes a generic map[string]any (as carried on
// distmodel.Package.Overrides, which comes from TOML `[package.metadata.dist]`
// already unmarshaled by the loader) the same way, by round-tripping
// through TOML encoding so unknown-key detection stays in one place. The
// "dist" opt-out flag and the "build-command" override share that table
// but are read by the loader and the builder, so they are skipped here.
func ParseOverrides(source string, overrides map[string]any) (DistConfig, error) {
	filtered := make(map[string]any, len(overrides))
	for k, v := range overrides {
		if k == "dist" || k == "build-command" {
			continue
		}
		filtered[k] = v
	}
	if len(filtered) == 0 {
		return DistConfig{}, nil
	}
	encoded, err := toml.Marshal(filtered)
	if err != nil {
		return DistConfig{}, fmt.Errorf("distconfig: re-encode %s overrides: %w", source, err)
	}
	return Parse(source, encoded)
}
