package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"llmsvc/internal/common/fsutil"
	"llmsvc/pkg/types"
)

// GGUFScanner lists *.gguf artifacts in a flat cache directory.
type GGUFScanner struct{}

func NewGGUFScanner() *GGUFScanner { return &GGUFScanner{} }

var quantRe = regexp.MustCompile(`(?i)^(i?q\d[a-z0-9_]*|f16|f32|bf16)$`)

// Scan returns the artifacts in dir sorted by ID. ID is the filename
// (including extension), Path is absolute. A missing directory yields an empty
// list: nothing has been downloaded yet.
func (s *GGUFScanner) Scan(dir string) ([]types.Model, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Model{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	models := []types.Model{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		m := types.Model{ID: name, Name: name[:len(name)-len(".gguf")], Path: filepath.Join(abs, name), Quant: parseQuant(name)}
		if info, err := e.Info(); err == nil {
			m.SizeBytes = info.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// parseQuant extracts the quantization tag, e.g. "Q4_K_M" from
// "Meta-Llama-3-8B-Instruct.Q4_K_M.gguf".
func parseQuant(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, sep := range []string{".", "-"} {
		if i := strings.LastIndex(stem, sep); i >= 0 {
			if tail := stem[i+1:]; quantRe.MatchString(tail) {
				return strings.ToUpper(tail)
			}
		}
	}
	return ""
}

// LoadDir scans dir with a GGUFScanner.
func LoadDir(dir string) ([]types.Model, error) { return NewGGUFScanner().Scan(dir) }
