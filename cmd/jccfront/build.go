package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlangtools/jcc/internal/job"
	"github.com/jlangtools/jcc/internal/registry"
)

var buildOut string

func init() {
	cmd := newBuildCmd()
	cmd.Flags().StringVarP(&buildOut, "out", "o", "", "Write joined target source to this file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <unit.j> [unit.j ...]",
		Short: "Compile one or more J compilation units into joined target source",
		Long: `build drives one job over the given root source files: each becomes an
independent compilation unit, preprocessed, lexed, parsed, and lowered, then
joined around a single runtime prologue built from the job-wide reflective
registry.

Example:
  jccfront build main.j util.j
  jccfront build main.j --out main.cpp --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args)
		},
	}
}

// osFileLoader resolves every name it is given, each unit's root file as
// well as #include targets, relative to baseDir; absolute names are read
// as given. runBuild sets baseDir to the directory of the first unit on
// the command line, for all units.
type osFileLoader struct {
	baseDir string
}

func (l osFileLoader) Load(name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, name)
	}
	return os.ReadFile(path)
}

func runBuild(args []string) error {
	units := make([]job.UnitSource, 0, len(args))
	for _, path := range args {
		units = append(units, job.UnitSource{
			Name:     filepath.Base(path),
			RootFile: path,
		})
	}

	reg := registry.New()
	loader := osFileLoader{baseDir: "."}
	if len(args) > 0 {
		loader.baseDir = filepath.Dir(args[0])
	}

	log.Debug("running job", "units", len(units))
	result := job.Run(units, loader, reg, time.Now().Unix())

	if jsonOut {
		text, err := result.Report.FormatJSON()
		if err != nil {
			return err
		}
		printInfo("%s\n", text)
	} else if !quiet {
		printInfo("%s", result.Report.FormatText())
	}

	if result.Fatal {
		printError("job aborted: a fatal diagnostic was reported\n")
		exitCode = 1
		return nil
	}
	if result.UnitsFailed > 0 || result.Report.HasErrors() {
		printError("%d unit(s) failed\n", result.UnitsFailed)
		exitCode = 1
		return nil
	}

	if buildOut != "" {
		if err := os.WriteFile(buildOut, []byte(result.Source), 0644); err != nil {
			return err
		}
		printInfo("wrote %s\n", buildOut)
	} else if !quiet {
		printInfo("%s", result.Source)
	}

	exitCode = 0
	return nil
}
