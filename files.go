package sokopack

import (
	"os"
	"path/filepath"

	"github.com/bodgit/sokopack/container"
	"gopkg.in/yaml.v3"
)

// WriteFiles writes the blob, offset table and metadata of pack into dir.
func (p *Packer) WriteFiles(dir string, pack *container.Pack) error {
	order, err := p.config.ByteOrder()
	if err != nil {
		return err
	}

	m, err := pack.Metadata()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{p.config.BlobFile, pack.Blob()},
		{p.config.TableFile, pack.Table().Marshal(order)},
		{p.config.MetadataFile, b},
	}

	for _, f := range files {
		file := filepath.Join(dir, f.name)
		if err := os.WriteFile(file, f.data, 0o644); err != nil {
			return err
		}
		p.logger.Printf("Wrote \"%s\", %d bytes\n", file, len(f.data))
	}

	return nil
}

// Open reads a pack previously written to dir by WriteFiles.
func Open(dir string, config Config) (*container.Pack, error) {
	order, err := config.ByteOrder()
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(filepath.Join(dir, config.BlobFile))
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(filepath.Join(dir, config.TableFile))
	if err != nil {
		return nil, err
	}
	table, err := container.UnmarshalTable(b, order)
	if err != nil {
		return nil, err
	}

	return container.Open(blob, table)
}

// ReadMetadata reads the metadata file previously written to dir by
// WriteFiles.
func ReadMetadata(dir string, config Config) (container.Metadata, error) {
	var m container.Metadata
	b, err := os.ReadFile(filepath.Join(dir, config.MetadataFile))
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, err
	}
	return m, nil
}
