package sokopack

import (
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how levels are checked and packed.
type Config struct {
	// MaxWidth and MaxHeight are the largest level the target display
	// can show, in tiles
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	// TableByteOrder is either "little" or "big"
	TableByteOrder string `yaml:"table_byte_order"`

	Workers int `yaml:"workers"`

	BlobFile     string `yaml:"blob_file"`
	TableFile    string `yaml:"table_file"`
	MetadataFile string `yaml:"metadata_file"`
}

// DefaultConfig returns the configuration for a 320x240 display with 16
// pixel tiles.
func DefaultConfig() Config {
	return Config{
		MaxWidth:       320 / 16,
		MaxHeight:      240 / 16,
		TableByteOrder: "little",
		Workers:        4,
		BlobFile:       "levels.bin",
		TableFile:      "levels.tbl",
		MetadataFile:   "levels.yaml",
	}
}

// LoadConfig reads the YAML configuration at path. Anything not set in
// the file keeps its default value.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.MaxWidth < 1 || c.MaxWidth > 0xff || c.MaxHeight < 1 || c.MaxHeight > 0xff {
		return fmt.Errorf("invalid display size %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	if c.BlobFile == "" || c.TableFile == "" || c.MetadataFile == "" {
		return fmt.Errorf("output filenames must be set")
	}
	_, err := c.ByteOrder()
	return err
}

// ByteOrder returns the byte order used for the offset table.
func (c Config) ByteOrder() (binary.ByteOrder, error) {
	switch c.TableByteOrder {
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown table byte order %q", c.TableByteOrder)
	}
}
