package rjava

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	generatedFileName = "R.java"
	baseTableFileName = "R.txt"
)

// outputFile is one fully rendered source waiting to be written. Rendering
// everything before the first write keeps a failed run from leaving partial
// output behind.
type outputFile struct {
	pkg  string
	path string
	data []byte
}

// outputPath maps a dotted package name under the output root, one directory
// segment per package component.
func outputPath(rDir, pkg string) string {
	segments := append([]string{rDir}, strings.Split(pkg, ".")...)
	return filepath.Join(append(segments, generatedFileName)...)
}

// writeFiles checks the whole set for naming collisions first and only then
// touches the filesystem.
func writeFiles(files []outputFile, log *zap.Logger) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, dup := seen[f.path]; dup {
			return &OutputCollisionError{Path: f.path, Packages: [2]string{prev, f.pkg}}
		}
		seen[f.path] = f.pkg
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("unable to create output directory for package %s: %w", f.pkg, err)
		}
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return fmt.Errorf("unable to write generated class for package %s: %w", f.pkg, err)
		}
		log.Info("Generated source", zap.String("package", f.pkg), zap.String("file", f.path))
	}
	return nil
}

// touchStamp records a fully successful run for the surrounding build
// system. Existing content is discarded.
func touchStamp(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to touch stamp file '%s': %w", path, err)
	}
	return f.Close()
}
