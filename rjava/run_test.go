package rjava

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"resgen/config"
	"resgen/state"
)

const runTable = `int drawable icon 0x7f020000
int string app_name 0x7f030000
int[] styleable Theme { 0x7f010000, 0x7f010001 }
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestGenerateFiltered_CountMismatch(t *testing.T) {
	log := zaptest.NewLogger(t)
	_, err := generateFiltered(t.TempDir(), []string{"com.example.a", "com.example.b"}, []string{"only-one.txt"}, false, nil, log)
	if !errors.Is(err, ErrPackageCountMismatch) {
		t.Fatalf("generateFiltered() error = %v, want ErrPackageCountMismatch", err)
	}
}

func TestGenerateFiltered_NoBaseTable(t *testing.T) {
	log := zaptest.NewLogger(t)
	files, err := generateFiltered(t.TempDir(), []string{"com.example.a"}, []string{"a.txt"}, false, nil, log)
	if err != nil {
		t.Fatalf("generateFiltered() error = %v, want silent no-op", err)
	}
	if files != nil {
		t.Errorf("generateFiltered() produced %d files, want none", len(files))
	}
}

func TestGenerateFiltered_SkipsPackageWithoutSymbolList(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int drawable icon 0\n")

	files, err := generateFiltered(dir,
		[]string{"com.example.a", "com.example.b"},
		[]string{listA, filepath.Join(dir, "b-symbols.txt")},
		false, nil, log)
	if err != nil {
		t.Fatalf("generateFiltered() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("generateFiltered() produced %d files, want 1", len(files))
	}
	if files[0].pkg != "com.example.a" {
		t.Errorf("generated package = %s, want com.example.a", files[0].pkg)
	}
}

func TestGenerateFiltered_UnresolvedAbortsAllPackages(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int drawable icon 0\n")
	listB := writeInput(t, dir, "b-symbols.txt", "int drawable nonexistent 0\n")

	_, err := generateFiltered(dir,
		[]string{"com.example.a", "com.example.b"},
		[]string{listA, listB},
		false, nil, log)

	var use *UnresolvedSymbolError
	if !errors.As(err, &use) {
		t.Fatalf("generateFiltered() error = %v, want UnresolvedSymbolError", err)
	}
	// nothing may be written for any package in the failed run
	if _, err := os.Stat(filepath.Join(dir, "com", "example", "a", "R.java")); !os.IsNotExist(err) {
		t.Error("output for package a exists after failed run")
	}
}

func TestGenerateFiltered_ReportEntryNames(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int drawable icon 0\n")

	conf := &config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	// a package name with path separators must not nest archive entries
	if _, err := generateFiltered(dir, []string{"com/example/a"}, []string{listA}, false, rpt, log); err != nil {
		t.Fatalf("generateFiltered() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	arc, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer arc.Close()

	names := make(map[string]bool)
	for _, f := range arc.File {
		names[f.Name] = true
	}
	if !names["symbols/comexamplea.txt"] {
		t.Errorf("sanitized symbol list entry missing, report has %v", names)
	}
}

func TestOutputPath(t *testing.T) {
	got := outputPath(filepath.Join("gen"), "com.example.app")
	want := filepath.Join("gen", "com", "example", "app", "R.java")
	if got != want {
		t.Errorf("outputPath() = %s, want %s", got, want)
	}
}

func TestWriteFiles_Collision(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	files := []outputFile{
		{pkg: "com.example.a", path: outputPath(dir, "com.example.a"), data: []byte("first")},
		{pkg: "com.example.a", path: outputPath(dir, "com.example.a"), data: []byte("second")},
	}

	err := writeFiles(files, log)
	var oce *OutputCollisionError
	if !errors.As(err, &oce) {
		t.Fatalf("writeFiles() error = %v, want OutputCollisionError", err)
	}
	// collision is detected before anything is written
	if _, err := os.Stat(files[0].path); !os.IsNotExist(err) {
		t.Error("collided output was written")
	}
}

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Action: Run,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "package", Aliases: []string{"p"}},
			&cli.StringSliceFlag{Name: "symbols", Aliases: []string{"s"}},
			&cli.BoolFlag{Name: "shared-resources"},
			&cli.BoolFlag{Name: "include-all"},
			&cli.StringFlag{Name: "stamp"},
		},
	}
}

func setupTestEnv(t *testing.T) context.Context {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t)
	return ctx
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int drawable icon 0\nint string app_name 0\n")
	stamp := filepath.Join(dir, "generate.stamp")

	cmd := newGenerateCommand()
	err := cmd.Run(setupTestEnv(t), []string{"generate",
		"--package", "com.example.a",
		"--symbols", listA,
		"--stamp", stamp,
		dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "com", "example", "a", "R.java"))
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	src := string(data)
	if !strings.Contains(src, "package com.example.a;") {
		t.Error("generated source has wrong package")
	}
	if !strings.Contains(src, "public static final int icon = 0x7f020000;") {
		t.Error("generated source misses icon field")
	}

	if _, err := os.Stat(stamp); err != nil {
		t.Errorf("stamp file missing after successful run: %v", err)
	}
}

func TestRun_NoStampOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int drawable nonexistent 0\n")
	stamp := filepath.Join(dir, "generate.stamp")

	cmd := newGenerateCommand()
	err := cmd.Run(setupTestEnv(t), []string{"generate",
		"--package", "com.example.a",
		"--symbols", listA,
		"--stamp", stamp,
		dir})
	if err == nil {
		t.Fatal("Run() succeeded on unresolved symbol")
	}
	if _, err := os.Stat(stamp); !os.IsNotExist(err) {
		t.Error("stamp file exists after failed run")
	}
}

func TestRun_SharedResources(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "R.txt", runTable)
	listA := writeInput(t, dir, "a-symbols.txt", "int[] styleable Theme 0\n")

	cmd := newGenerateCommand()
	err := cmd.Run(setupTestEnv(t), []string{"generate",
		"--package", "com.example.a",
		"--symbols", listA,
		"--shared-resources",
		dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "com", "example", "a", "R.java"))
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	src := string(data)
	if !strings.Contains(src, "public static int[] Theme = { 0x7f010000, 0x7f010001 };") {
		t.Error("shared field is not mutable or value not verbatim")
	}
	if !strings.Contains(src, "public static void onResourcesLoaded(int packageId) {") {
		t.Error("patch routine missing for shared resources")
	}
}
