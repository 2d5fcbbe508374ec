// TermLog CLI - amateur radio logging for the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termlog/termlog/internal/config"
	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/logging"
	"github.com/termlog/termlog/internal/modes"
	"github.com/termlog/termlog/internal/storage"
)

var (
	configPath string
	verbose    bool

	version = "0.3.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "termlog",
		Short: "TermLog - amateur radio logging for the terminal",
		Long: `TermLog is a terminal-based amateur radio logger.

Log contacts from the command line, run contest / POTA / Field Day
sessions with live dupe checking and scoring, look up callsigns on
QRZ or HamQTH, watch spots, and export your log as Cabrillo or ADIF.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLevel(logging.DEBUG)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.termlog/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(modeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(spotsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles everything a command needs: config, the open database
// and the stores on top of it.
type app struct {
	cfg      *config.Config
	db       *storage.DB
	qsos     *storage.QSOStore
	sessions *storage.SessionStore
}

// openApp loads config, opens the database and runs migrations.
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(storage.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, fmt.Errorf("open log database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		db:       db,
		qsos:     storage.NewQSOStore(db),
		sessions: storage.NewSessionStore(db),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

// resumeEngine rebuilds the scoring engine from the active session, if
// any. With no active session the controller stays in general logging.
func (a *app) resumeEngine() (*modes.Controller, *storage.Session, error) {
	ctrl := modes.NewController()

	sess, err := a.sessions.Active()
	if errors.Is(err, core.ErrSessionNotFound) {
		return ctrl, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	ctrl, err = rebuildSession(a, sess)
	if err != nil {
		return nil, nil, fmt.Errorf("resume %s session: %w", sess.Kind, err)
	}

	logging.WithField("session", sess.ID).Debug("resumed %s session", sess.Kind)
	return ctrl, sess, nil
}

// versionCmd shows version
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show TermLog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("TermLog %s\n", version)
			fmt.Println("Amateur radio logging for the terminal")
		},
	}
}
