package sokopack

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 20, c.MaxWidth)
	assert.Equal(t, 15, c.MaxHeight)
	require.NoError(t, c.Validate())

	o, err := c.ByteOrder()
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, o)
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sokopack.yaml", "max_width: 40\ntable_byte_order: big\nblob_file: data.bin\n")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, c.MaxWidth)
	assert.Equal(t, 15, c.MaxHeight)
	assert.Equal(t, "data.bin", c.BlobFile)
	assert.Equal(t, "levels.tbl", c.TableFile)

	o, err := c.ByteOrder()
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, o)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, dir, "order.yaml", "table_byte_order: middle\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, dir, "size.yaml", "max_height: 300\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, dir, "workers.yaml", "workers: 0\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, dir, "bad.yaml", "max_width: [\n"))
	assert.Error(t, err)
}
