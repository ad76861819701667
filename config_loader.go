package stride

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// LoadRunConfig parses a TOML config file into a RunConfig, following the
// teacher's LoadEvoEpiConfig/LoadSingleHostConfig idiom (toml.DecodeFile
// into a zero-valued struct, wrap any decode error).
func LoadRunConfig(path string) (*RunConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Errorf(FileDoesNotExistError, path)
	}
	var conf RunConfig
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, errors.Wrap(err, "decoding run config")
	}
	return &conf, nil
}

// StartDateTime parses the config's start_date field, defaulting to the Unix
// epoch when absent (tests commonly leave it unset and only care about
// day offsets).
func (c *RunConfig) StartDateTime() (time.Time, error) {
	if c.StartDate == "" {
		return time.Unix(0, 0).UTC(), nil
	}
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing start_date %q", c.StartDate)
	}
	return t, nil
}
