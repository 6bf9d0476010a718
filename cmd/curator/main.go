// Package main provides the CLI entry point for curator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/curatorlabs/curator/internal/api"
	"github.com/curatorlabs/curator/internal/config"
	"github.com/curatorlabs/curator/internal/inventory"
	"github.com/curatorlabs/curator/internal/naming"
	"github.com/curatorlabs/curator/internal/store"
	"github.com/curatorlabs/curator/internal/tui"
	"github.com/curatorlabs/curator/internal/wizard"
)

var version = "dev"

var (
	configPath    string // Override from --config flag
	connectorName string // Override from --connector flag
	verbose       bool
	logFile       *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "curator",
		Version: version,
		Short:   "Map storage folders to collections",
		Long: `curator is an interactive tool for creating collections from storage
folders. It shows the folder inventory of a connector as a tree, lets you
select folders, and creates one collection per selected folder in a single
batch.

Configuration lives in ~/.config/curator/config.yaml.

Run 'curator init' to create a starter configuration.
Run 'curator sync' to fetch the folder inventory.
Run without arguments to start the interactive wizard.`,
		RunE: runWizard,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				logWriter := os.Stderr
				// When running interactively (TUI), write logs to a file to avoid corrupting the display
				if tui.IsTerminal() {
					logPath := filepath.Join(os.TempDir(), "curator.log")
					f, err := os.Create(logPath)
					if err == nil {
						logFile = f
						logWriter = f
						fmt.Fprintf(os.Stderr, "Verbose logs: %s\n", logPath)
					}
				}
				slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logFile != nil {
				_ = logFile.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Override config file path")
	rootCmd.PersistentFlags().StringVar(&connectorName, "connector", "", "Override the configured connector")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	initCmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Initialize the configuration",
		Long: `Create ~/.config/curator/config.yaml pointing at the collection service.

The API token and connector can be passed as flags or filled in afterwards
by editing the file.`,
		Args: cobra.ExactArgs(1),
		RunE: runInit,
	}
	initCmd.Flags().String("token", "", "API token")
	initCmd.Flags().String("connector", "", "Connector name")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the folder inventory into the local cache",
		Long: `Fetch the connector's folder inventory from the collection service and
store it in the local cache. The wizard and 'folders' read from this cache.`,
		RunE: runSync,
	}

	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "List cached folders",
		Long:  `Print the cached folder inventory for the configured connector.`,
		RunE:  runFolders,
	}

	rootCmd.AddCommand(initCmd, syncCmd, foldersCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	token, _ := cmd.Flags().GetString("token")
	connector, _ := cmd.Flags().GetString("connector")

	cfg := &config.Config{
		APIURL:    args[0],
		APIToken:  token,
		Connector: connector,
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Configuration saved to %s\n", path)
	if token == "" || connector == "" {
		fmt.Println("Edit it to fill in the API token and connector.")
	}

	return nil
}

func runSync(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIURL, cfg.APIToken, slog.Default())

	snap, err := client.ListFolders(context.Background(), cfg.Connector)
	if err != nil {
		return fmt.Errorf("fetching inventory: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.ReplaceFolders(cfg.Connector, snap); err != nil {
		return err
	}

	fmt.Printf("Synced %d folders for connector %q\n", snap.Len(), cfg.Connector)

	return nil
}

func runFolders(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadFolders(cfg.Connector)
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		return fmt.Errorf("no cached folders for connector %q, run 'curator sync' first", cfg.Connector)
	}

	for _, f := range snap.Folders() {
		mapped := ""
		if f.IsMapped() {
			mapped = "  [mapped]"
		}
		depth := len(inventory.Segments(f.Path)) - 1
		fmt.Printf("%s%s  (%d objects, %s)%s\n",
			strings.Repeat("  ", depth), inventory.BaseName(f.Path),
			f.ObjectCount, humanize.Bytes(uint64(f.TotalSize)), mapped)
	}

	return nil
}

func runWizard(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadFolders(cfg.Connector)
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		return fmt.Errorf("no cached folders for connector %q, run 'curator sync' first", cfg.Connector)
	}

	lastSync, err := st.LastSync(cfg.Connector)
	if err != nil {
		return err
	}

	suggester, err := naming.NewSuggester(cfg.NameTemplate)
	if err != nil {
		return err
	}

	session := wizard.NewSession(wizard.Config{
		Snapshot:     snap,
		Suggest:      suggester.Suggest,
		Validate:     naming.ValidateName,
		DefaultState: cfg.ResolveState(),
	})

	return tui.Run(tui.Options{
		Snapshot:  snap,
		Session:   session,
		Creator:   api.NewClient(cfg.APIURL, cfg.APIToken, slog.Default()),
		Connector: cfg.Connector,
		LastSync:  lastSync,
	})
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if connectorName != "" {
		cfg.Connector = connectorName
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
