package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"synnergy-network/synthesis/internal/backend"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/pkg/compiler"
	"synnergy-network/synthesis/pkg/utils"
)

var idlCmd = &cobra.Command{
	Use:   "idl",
	Short: "inspect or serve a compiled package's metadata/IDL",
}

var idlDumpCmd = &cobra.Command{
	Use:   "dump <file.sol> [more files...]",
	Short: "compile and print the package's metadata/IDL to stdout",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIDLDump,
}

var idlServeCmd = &cobra.Command{
	Use:   "serve <file.sol> [more files...]",
	Short: "compile and serve the package's metadata/IDL over HTTP",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIDLServe,
}

func init() {
	idlServeCmd.Flags().String("addr", ":8080", "address to listen on")
	idlCmd.AddCommand(idlDumpCmd, idlServeCmd)
}

func compileFromArgs(cmd *cobra.Command, args []string) (*compiler.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	configureLogging(cfg)

	tname, ok := target.ParseName(cfg.Target.Name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q", cfg.Target.Name)
	}

	sources, err := readSources(args)
	if err != nil {
		return nil, err
	}

	importMap := resolver.ImportMap{}
	for _, m := range cfg.Paths.ImportMap {
		importMap[m.Prefix] = m.Root
	}

	return compiler.Compile(compiler.Options{
		Sources:     sources,
		Target:      tname,
		ImportMap:   importMap,
		SearchPaths: cfg.Paths.SearchRoots,
		Log:         log,
	})
}

func runIDLDump(cmd *cobra.Command, args []string) error {
	res, err := compileFromArgs(cmd, args)
	if res != nil {
		for _, d := range res.Diagnostics.Sorted() {
			fmt.Fprintln(cmd.ErrOrStderr(), d.String())
		}
	}
	if err != nil {
		return err
	}
	js, err := res.Package.WriteJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(js))
	return nil
}

// runIDLServe compiles once up front and serves the resulting package at
// GET /idl for as long as the process runs; it does not watch sources for
// changes, so a recompile means restarting the command.
func runIDLServe(cmd *cobra.Command, args []string) error {
	res, err := compileFromArgs(cmd, args)
	if res != nil {
		for _, d := range res.Diagnostics.Sorted() {
			fmt.Fprintln(cmd.ErrOrStderr(), d.String())
		}
	}
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/idl", idlHandler(res.Package))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr, _ := cmd.Flags().GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: time.Duration(utils.EnvOrDefaultInt("SOLC_IDL_READ_HEADER_TIMEOUT_SECONDS", 5)) * time.Second,
	}
	log.WithField("addr", addr).Info("serving idl")
	return srv.ListenAndServe()
}

func idlHandler(pkg backend.Package) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(pkg); err != nil {
			log.WithError(err).Error("encode idl response")
		}
	}
}
