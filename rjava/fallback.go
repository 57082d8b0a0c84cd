package rjava

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// packageLineRe matches the package declaration of a generated class. Only
// this line differs between the per-package copies the fallback produces.
var packageLineRe = regexp.MustCompile(`package [.\w]*;`)

// generateAll is the all-resources fallback: instead of filtering the base
// table per package, it takes the one fully generated class and re-declares
// it under every target package. When zero or more than one generated class
// is found the situation is ambiguous and the whole mode is a no-op.
func generateAll(rDir string, packages []string, log *zap.Logger) ([]outputFile, error) {
	candidates, err := findGeneratedClasses(rDir)
	if err != nil {
		return nil, err
	}
	if len(candidates) != 1 {
		log.Warn("Not exactly one generated class found, skipping all-resources generation",
			zap.String("dir", rDir), zap.Strings("found", candidates))
		return nil, nil
	}

	src, err := os.ReadFile(candidates[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read generated class '%s': %w", candidates[0], err)
	}

	files := make([]outputFile, 0, len(packages))
	for _, pkg := range packages {
		data := packageLineRe.ReplaceAll(src, []byte("package "+pkg+";"))
		files = append(files, outputFile{
			pkg:  pkg,
			path: outputPath(rDir, pkg),
			data: data,
		})
		log.Debug("Prepared all-resources class", zap.String("package", pkg))
	}
	return files, nil
}

func findGeneratedClasses(rDir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(rDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == generatedFileName {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to scan '%s' for generated classes: %w", rDir, err)
	}
	return found, nil
}
