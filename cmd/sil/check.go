package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sil/internal/diagfmt"
	"sil/internal/driver"
	"sil/internal/linker"
	"sil/internal/project"
)

var (
	checkStage   string
	checkJSON    bool
	checkUIFlag  string
	checkNoCache bool
)

func init() {
	checkCmd.Flags().StringVar(&checkStage, "stage", "", "stop the pipeline after this stage (flatten|typecheck|lint|instantiate)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit diagnostics as JSON")
	checkCmd.Flags().StringVar(&checkUIFlag, "ui", "auto", "interactive progress display (auto|on|off)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "skip the artifact disk cache")
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Compile a design and report diagnostics",
	Long:  `check loads every .sil file with its syntax artifact, links and typechecks the design, instantiates zero-parameter entities and prints the collected diagnostics`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	manifest, haveManifest, err := project.Load(startDir)
	if err != nil {
		return err
	}

	dir := startDir
	if len(args) == 0 && haveManifest {
		dir = manifest.SourceDir()
	}

	stageName := checkStage
	if stageName == "" && haveManifest {
		stageName = manifest.Config.Compile.Stage
	}
	stage, err := parseStage(stageName)
	if err != nil {
		return err
	}

	maxDiags, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	if maxDiags == 0 && haveManifest {
		maxDiags = manifest.Config.Compile.MaxDiagnostics
	}

	colorValue, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	if colorValue == "auto" && haveManifest {
		switch manifest.Config.Compile.Color {
		case "always":
			colorValue = "on"
		case "never":
			colorValue = "off"
		}
	}
	colored, err := shouldColor(colorValue)
	if err != nil {
		return err
	}

	opts := &driver.Options{Stage: stage, MaxDiagnostics: maxDiags}
	if !checkNoCache {
		// A broken cache dir only disables caching.
		if cache, cacheErr := driver.OpenDiskCache("sil"); cacheErr == nil {
			opts.Cache = cache
		}
	}

	mode, err := readUIMode(checkUIFlag)
	if err != nil {
		return err
	}

	var res *driver.Result
	if shouldUseTUI(mode) && !checkJSON {
		files, listErr := driver.ListSourceFiles(dir)
		if listErr != nil {
			return listErr
		}
		res, err = runCheckWithUI(cmd.Context(), "sil check", files, dir, opts)
	} else {
		res, err = driver.CheckDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return err
	}

	if checkJSON {
		if err := diagfmt.JSON(os.Stdout, res.Bag, res.Linker, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(os.Stdout, res.Bag, res.Linker, diagfmt.PrettyOpts{
			Color:        colored,
			ShowNotes:    true,
			ShowExcerpts: true,
		})
	}

	if res.Bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("check failed with %d diagnostics", res.Bag.Len())
	}
	if !checkJSON {
		fmt.Fprintf(os.Stdout, "ok: %d files\n", len(res.Files))
	}
	return nil
}

func parseStage(name string) (linker.Stage, error) {
	switch name {
	case "":
		return linker.StageCodegen, nil
	case "flatten":
		return linker.StageFlatten, nil
	case "typecheck":
		return linker.StageTypecheck, nil
	case "lint":
		return linker.StageLint, nil
	case "instantiate":
		return linker.StageInstantiate, nil
	default:
		return 0, fmt.Errorf("unknown stage %q (expected flatten, typecheck, lint or instantiate)", name)
	}
}
