package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/pkg/compiler"
)

var buildCmd = &cobra.Command{
	Use:   "build <file.sol> [more files...]",
	Short: "compile sources into a metadata/IDL package",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("out", "", "output directory (defaults to config's output.dir)")
	buildCmd.Flags().Bool("yaml", false, "also emit the human-inspection YAML dump")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	configureLogging(cfg)

	tname, ok := target.ParseName(cfg.Target.Name)
	if !ok {
		return fmt.Errorf("unknown target %q", cfg.Target.Name)
	}

	sources, err := readSources(args)
	if err != nil {
		return err
	}

	importMap := resolver.ImportMap{}
	for _, m := range cfg.Paths.ImportMap {
		importMap[m.Prefix] = m.Root
	}

	res, err := compiler.Compile(compiler.Options{
		Sources:     sources,
		Target:      tname,
		ImportMap:   importMap,
		SearchPaths: cfg.Paths.SearchRoots,
		Log:         log,
	})
	for _, d := range res.Diagnostics.Sorted() {
		fmt.Fprintln(cmd.ErrOrStderr(), d.String())
	}
	if err != nil {
		return err
	}

	outDir := cfg.Output.Dir
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		outDir = v
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	js, err := res.Package.WriteJSON()
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(outDir, "package.json")
	if err := os.WriteFile(jsonPath, js, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", jsonPath)

	emitYAML, _ := cmd.Flags().GetBool("yaml")
	if emitYAML || cfg.Output.EmitYAMLIDL {
		ys, err := res.Package.WriteYAML()
		if err != nil {
			return err
		}
		yamlPath := filepath.Join(outDir, "package.yaml")
		if err := os.WriteFile(yamlPath, ys, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", yamlPath)
	}
	return nil
}
