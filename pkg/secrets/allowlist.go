package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Allowlist holds content patterns that are never reported as secrets.
type Allowlist struct {
	Regexes []string
}

// Validate compiles every pattern.
func (a *Allowlist) Validate() error {
	if a == nil {
		return nil
	}
	for _, pattern := range a.Regexes {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRegex, pattern, err)
		}
	}
	return nil
}

// LoadAllowlist reads a Gitleaks-style TOML file:
//
//	[allowlist]
//	regexes = ['''^test-''']
//
// A missing file yields an empty allowlist.
func LoadAllowlist(path string) (*Allowlist, error) {
	if path == "" {
		return &Allowlist{}, nil
	}

	var file struct {
		Allowlist struct {
			Regexes []string `toml:"regexes"`
		} `toml:"allowlist"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Allowlist{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	a := &Allowlist{Regexes: file.Allowlist.Regexes}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
