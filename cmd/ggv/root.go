package main

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gigavenvidere/ggv-oppgjor/client"
	"github.com/gigavenvidere/ggv-oppgjor/config"
	"github.com/gigavenvidere/ggv-oppgjor/logger"
	"github.com/gigavenvidere/ggv-oppgjor/service"
	"github.com/gigavenvidere/ggv-oppgjor/store"
)

// app holds what the subcommands share once the root command has run.
type app struct {
	dataDir string
	verbose bool

	kv      *store.Store
	service *service.SettlementService
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ggv",
		Short:         "Extract and verify Gi Gaven Videre settlements",
		Long:          `Reads settlement statements (PDF or text), verifies the line items against the stated total and orders them by the organization master list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "db", "", "Directory of the master list database (default ~/.ggv-oppgjor)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log pipeline details to stderr")

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newMasterListCmd(a))
	return rootCmd, a
}

// execute runs the command line and closes the store whether or not the
// command succeeded.
func execute(rootCmd *cobra.Command, a *app) error {
	err := rootCmd.Execute()
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *app) open(logOut io.Writer) error {
	cfg := config.LoadConfig()
	if a.dataDir == "" {
		a.dataDir = cfg.DataDir
	}

	log := zerolog.Nop()
	if a.verbose {
		log = logger.NewWithWriter("development", logOut)
	}

	reporter, err := client.NewIssueReporter(cfg.GitHubToken, cfg.GitHubRepository, log)
	if err != nil {
		return err
	}

	kv, err := store.NewStore(a.dataDir)
	if err != nil {
		return err
	}
	a.kv = kv

	a.service = service.NewSettlementService(
		service.NewPDFProcessor(),
		client.NewOCREngine(client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage, log), cfg.PaddleOCRURL, log),
		store.NewMasterListStore(kv),
		reporter,
		cfg.MinTextLength,
		log,
	)
	return nil
}

func (a *app) close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}

var errNotOpened = errors.New("store not opened")
