package rjava

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"resgen/config"
	"resgen/state"
	"resgen/symbols"
)

// Run implements the generate subcommand: parse the base symbol table,
// resolve each target package's own symbol list against it and write one
// generated class per package. All fatal conditions abort before anything is
// written, the documented "not yet ready" states are quiet successes.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	rDir := cmd.Args().Get(0)
	if len(rDir) == 0 {
		return errors.New("no resource output directory has been specified")
	}
	rDir, err := filepath.Abs(rDir)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	packages := cmd.StringSlice("package")
	if len(packages) == 0 {
		log.Warn("No target packages requested, nothing to do")
		return nil
	}

	var files []outputFile
	if cmd.Bool("include-all") {
		files, err = generateAll(rDir, packages, log)
	} else {
		files, err = generateFiltered(rDir, packages, cmd.StringSlice("symbols"), cmd.Bool("shared-resources"), env.Rpt, log)
	}
	if err != nil {
		return err
	}

	if err := writeFiles(files, log); err != nil {
		return err
	}
	for _, f := range files {
		env.Rpt.StoreData(fmt.Sprintf("generated/%s/%s", config.CleanFileName(f.pkg), generatedFileName), f.data)
	}

	if stamp := cmd.String("stamp"); len(stamp) > 0 {
		return touchStamp(stamp)
	}
	return nil
}

func generateFiltered(rDir string, packages, lists []string, shared bool, rpt *config.Report, log *zap.Logger) ([]outputFile, error) {
	if len(packages) != len(lists) {
		return nil, fmt.Errorf("%d packages, %d symbol lists: %w", len(packages), len(lists), ErrPackageCountMismatch)
	}

	basePath := filepath.Join(rDir, baseTableFileName)
	bf, err := os.Open(basePath)
	if errors.Is(err, fs.ErrNotExist) {
		// the packaging tool produced no symbols this pass
		log.Info("Base symbol table is absent, nothing to generate", zap.String("file", basePath))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open base symbol table '%s': %w", basePath, err)
	}
	defer bf.Close()
	rpt.Store(baseTableFileName, basePath)

	tbl, err := symbols.ParseTable(bf)
	if err != nil {
		return nil, fmt.Errorf("unable to parse base symbol table '%s': %w", basePath, err)
	}
	log.Debug("Parsed base symbol table", zap.String("file", basePath), zap.Int("symbols", tbl.Len()))

	var files []outputFile
	for i, pkg := range packages {
		list := lists[i]
		lf, err := os.Open(list)
		if errors.Is(err, fs.ErrNotExist) {
			// sources for this package are not ready yet, it will get
			// its class on a later pass
			log.Debug("Symbol list is absent, skipping package", zap.String("package", pkg), zap.String("file", list))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("unable to open symbol list '%s': %w", list, err)
		}
		rpt.Store(fmt.Sprintf("symbols/%s.txt", config.CleanFileName(pkg)), list)

		keys, err := symbols.ParseRefs(lf)
		lf.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to parse symbol list '%s': %w", list, err)
		}

		m, err := Resolve(tbl, pkg, keys)
		if err != nil {
			return nil, err
		}
		files = append(files, outputFile{
			pkg:  pkg,
			path: outputPath(rDir, pkg),
			data: newClassFile(pkg, shared, m).render(),
		})
		log.Debug("Resolved package symbols", zap.String("package", pkg), zap.Int("types", m.Len()), zap.Int("symbols", len(keys)))
	}
	return files, nil
}
