package featenc

import (
	"bufio"
	"os"
	"path/filepath"
)

// readValueFile reads one acceptable value per line. Only the trailing newline
// is stripped: values keep interior and leading whitespace, and a blank line
// is the empty-string value. A path that does not open directly is retried
// relative to baseDir.
func readValueFile(path, baseDir string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil && baseDir != "" {
		f, err = os.Open(filepath.Join(baseDir, path))
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
