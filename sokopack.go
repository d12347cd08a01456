/*
Package sokopack is a library for packing Sokoban levels into a compact
read-only blob for memory-constrained targets.

Levels are collected in a catalog, run-length encoded and concatenated
into a blob alongside a table of 16-bit offsets so the target can decode
any single level on demand.
*/
package sokopack

import "log"

// Packer imports levels into a catalog and packs them.
type Packer struct {
	db     *LevelDB
	config Config
	logger *log.Logger
}

// New returns a Packer using the given catalog and configuration.
func New(db *LevelDB, config Config, logger *log.Logger) (*Packer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Packer{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}
