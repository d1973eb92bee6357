package featenc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// mappingFilePrefix marks a file as engine-owned state.
const mappingFilePrefix = ".featenc_"

var nonWord = regexp.MustCompile(`\W`)

// mappingFileName derives the dynamic mapping filename from the engine
// identity and the feature name, normalizing non-word characters.
func mappingFileName(engine, feature string) string {
	return mappingFilePrefix + nonWord.ReplaceAllString(engine, "_") +
		"_" + nonWord.ReplaceAllString(feature, "_")
}

// candidateDirs returns the ordered locations tried for a mapping file. A
// configured mapping directory pins the search to that single location.
func (e *Engine) candidateDirs() []string {
	if e.cfg.mappingDir != "" {
		return []string{e.cfg.mappingDir}
	}
	var dirs []string
	if cache, err := os.UserCacheDir(); err == nil {
		dirs = append(dirs, filepath.Join(cache, "featenc"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return append(dirs, os.TempDir())
}

// openDynamicMapping recovers a persisted category mapping, or establishes a
// fresh file at the first writable candidate location. The handle stays open
// for append-writes until the engine is closed. Failure across all candidates
// is fatal here, not deferred to first use.
func (e *Engine) openDynamicMapping(ctx context.Context, d *descriptor) error {
	name := mappingFileName(e.name, d.name)
	dirs := e.candidateDirs()

	// First pass: an existing read-writable file wins.
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			continue
		}
		if err := d.seedFromFile(f); err != nil {
			f.Close()
			return newMappingError(ErrMappingUnavailable, d.name, path, err)
		}
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return newMappingError(ErrMappingUnavailable, d.name, path, err)
		}
		d.mapFile = f
		d.mapPath = path
		emitMappingRestored(ctx, e.name, d.name, path, len(d.catToNum))
		return nil
	}

	// Second pass: create a fresh file at the first writable location.
	var lastErr error
	for _, dir := range dirs {
		_ = os.MkdirAll(dir, 0o755)
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			lastErr = err
			continue
		}
		d.mapFile = f
		d.mapPath = path
		d.catToNum = make(map[any]int)
		d.numToCat = make(map[int]any)
		emitMappingCreated(ctx, e.name, d.name, path)
		return nil
	}
	return newMappingError(ErrMappingUnavailable, d.name, "", lastErr)
}

// seedFromFile parses tab-separated "category\tnumber" lines into both mapping
// directions and the running maximum number.
func (d *descriptor) seedFromFile(f *os.File) error {
	d.catToNum = make(map[any]int)
	d.numToCat = make(map[int]any)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		cat, numField, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("malformed mapping line %q", line)
		}
		num, err := strconv.Atoi(numField)
		if err != nil {
			return fmt.Errorf("malformed mapping line %q", line)
		}
		d.catToNum[cat] = num
		d.numToCat[num] = cat
		if num > d.nextNum {
			d.nextNum = num
		}
	}
	return scanner.Err()
}

// assignCategory grows a dynamic mapping: the value gets the next unused
// number, both directions are updated, and the pair is appended to the
// persisted file. A write failure is fatal.
func (e *Engine) assignCategory(ctx context.Context, d *descriptor, cat string) (int, error) {
	d.nextNum++
	num := d.nextNum
	if _, err := fmt.Fprintf(d.mapFile, "%s\t%d\n", cat, num); err != nil {
		return 0, newMappingError(ErrMappingWrite, d.name, d.mapPath, err)
	}
	d.catToNum[cat] = num
	d.numToCat[num] = cat
	emitCategoryAssigned(ctx, e.name, d.name, cat, num)
	return num, nil
}
