package sokopack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/sokopack/container"
	"github.com/bodgit/sokopack/level"
)

// Extension is the file extension of importable level grids
const Extension = ".txt"

var errCancelled = errors.New("pipeline cancelled")

type parsedLevel struct {
	name  string
	level *level.Level
}

type encodeJob struct {
	index int
	Entry
}

type encodedLevel struct {
	index  int
	record []byte
}

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

func (p *Packer) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if hidden(info) && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || filepath.Ext(file) != Extension {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

func levelName(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, Extension)), nil
}

func (p *Packer) parseWorker(ctx context.Context, base string, in <-chan string) (<-chan parsedLevel, <-chan error, error) {
	out := make(chan parsedLevel)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			name, err := levelName(base, file)
			if err != nil {
				errc <- err
				return
			}

			f, err := os.Open(file)
			if err != nil {
				errc <- err
				return
			}
			l, err := level.Read(f)
			f.Close()
			if err != nil {
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}

			select {
			case out <- parsedLevel{name, l}:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func (p *Packer) queueLevels(ctx context.Context, entries []Entry) (<-chan encodeJob, <-chan error, error) {
	out := make(chan encodeJob)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, e := range entries {
			select {
			case out <- encodeJob{i, e}:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func (p *Packer) checkLevel(l *level.Level) error {
	if l.Width() > p.config.MaxWidth || l.Height() > p.config.MaxHeight {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d display", level.ErrDimensionOverflow, l.Width(), l.Height(), p.config.MaxWidth, p.config.MaxHeight)
	}
	return nil
}

func (p *Packer) encodeWorker(ctx context.Context, in <-chan encodeJob) (<-chan encodedLevel, <-chan error, error) {
	out := make(chan encodedLevel)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for job := range in {
			if err := p.checkLevel(job.Level); err != nil {
				errc <- fmt.Errorf("%s: %w", job.Name, &container.LevelError{Index: job.index, Err: err})
				return
			}

			record, err := container.Encode(job.Level)
			if err != nil {
				errc <- fmt.Errorf("%s: %w", job.Name, &container.LevelError{Index: job.index, Err: err})
				return
			}

			select {
			case out <- encodedLevel{job.index, record}:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := merge(errs...)
	var first error
	for err := range errc {
		if err != nil && (first == nil || errors.Is(first, errCancelled)) {
			first = err
		}
	}
	return first
}

func merge[T any](cs ...<-chan T) <-chan T {
	var wg sync.WaitGroup
	out := make(chan T, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan T) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Import parses every level grid found under path and stores it in the
// catalog. Each file holds a single level and is named after its path
// relative to path, without the extension.
func (p *Packer) Import(ctx context.Context, path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error
	var outList []<-chan parsedLevel

	files, errc, err := p.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < p.config.Workers; i++ {
		out, errc, err := p.parseWorker(ctx, dir, files)
		if err != nil {
			return err
		}
		outList = append(outList, out)
		errcList = append(errcList, errc)
	}

	// The catalog is only written from here
	var dbErr error
	for pl := range merge(outList...) {
		if dbErr != nil {
			continue
		}
		_, added, err := p.db.AddLevel(pl.name, pl.level)
		if err != nil {
			dbErr = fmt.Errorf("%s: %w", pl.name, err)
			cancelFunc()
			continue
		}
		if added {
			p.logger.Printf("Imported \"%s\" (%dx%d)\n", pl.name, pl.level.Width(), pl.level.Height())
		} else {
			p.logger.Printf("Skipped \"%s\", identical level already imported\n", pl.name)
		}
	}
	cancelFunc()

	if err := waitForPipeline(errcList...); err != nil && (dbErr == nil || !errors.Is(err, errCancelled)) {
		return err
	}
	return dbErr
}

// Pack encodes every catalog level, in name order, into a new pack.
// Levels are encoded concurrently but appended to the pack in order.
func (p *Packer) Pack(ctx context.Context) (*container.Pack, error) {
	entries, err := p.db.Levels()
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error
	var outList []<-chan encodedLevel

	jobs, errc, err := p.queueLevels(ctx, entries)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < p.config.Workers; i++ {
		out, errc, err := p.encodeWorker(ctx, jobs)
		if err != nil {
			return nil, err
		}
		outList = append(outList, out)
		errcList = append(errcList, errc)
	}

	records := make([][]byte, len(entries))
	for e := range merge(outList...) {
		records[e.index] = e.record
	}
	cancelFunc()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	// Offsets depend on every earlier record so this has to be serial
	b := container.NewBuilder()
	for i, record := range records {
		offset := b.Size()
		if err := b.Append(record); err != nil {
			return nil, fmt.Errorf("%s: %w", entries[i].Name, err)
		}
		p.logger.Printf("Packed \"%s\" at offset %d, %d bytes\n", entries[i].Name, offset, len(record))
	}

	pack := b.Pack()
	p.logger.Printf("Packed %d levels into %d bytes\n", pack.Len(), len(pack.Blob()))

	return pack, nil
}
