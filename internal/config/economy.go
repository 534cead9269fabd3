package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// Economy tunes prices and the map layout. It is read once at startup.
type Economy struct {
	SegmentCost int `toml:"segment_cost" validate:"gte=1"`
	Columns     int `toml:"columns" validate:"gte=1,lte=25"`
	Rows        int `toml:"rows" validate:"gte=1,lte=25"`
	PageSize    int `toml:"page_size" validate:"gte=1,lte=100"`
}

// DefaultEconomy returns the stock 6x5 map at 150 points per segment
func DefaultEconomy() Economy {
	return Economy{
		SegmentCost: DefaultSegmentCost,
		Columns:     domain.DefaultMapColumns,
		Rows:        domain.DefaultMapRows,
		PageSize:    domain.DefaultPageSize,
	}
}

// SegmentCount is the number of segments in a full map
func (e Economy) SegmentCount() int {
	return e.Columns * e.Rows
}

// LoadEconomy reads a TOML file over the defaults. An empty path yields the defaults.
func LoadEconomy(path string) (Economy, error) {
	econ := DefaultEconomy()
	if path == "" {
		return econ, nil
	}

	meta, err := toml.DecodeFile(path, &econ)
	if err != nil {
		return Economy{}, fmt.Errorf(ErrMsgReadEconomyFmt, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Economy{}, fmt.Errorf(ErrMsgUnknownKeysFmt, path, strings.Join(keys, ", "))
	}

	if err := econ.Validate(); err != nil {
		return Economy{}, err
	}
	return econ, nil
}

var economyValidator = validator.New()

// Validate checks every field is within range
func (e Economy) Validate() error {
	if err := economyValidator.Struct(e); err != nil {
		return fmt.Errorf(ErrMsgInvalidEconomyFmt, err)
	}
	return nil
}
