package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termlog/termlog/internal/adif"
	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/modes"
	"github.com/termlog/termlog/internal/storage"
)

// exportCmd groups the log export formats.
func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the log (Cabrillo or ADIF)",
	}
	cmd.AddCommand(exportCabrilloCmd())
	cmd.AddCommand(exportADIFCmd())
	return cmd
}

func exportCabrilloCmd() *cobra.Command {
	var (
		outPath   string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "cabrillo",
		Short: "Export a session as a Cabrillo v3 log",
		Long: `Exports an operating session as a Cabrillo v3 contest log.

Defaults to the active session; use --session to export an ended one
(see 'termlog mode status' or the session list for IDs). POTA hunter
sessions have no Cabrillo form and cannot be exported this way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var ctrl *modes.Controller
			var sess *storage.Session

			if sessionID != "" {
				sess, err = a.sessions.GetByID(sessionID)
				if err != nil {
					return err
				}
				ctrl, err = rebuildSession(a, sess)
				if err != nil {
					return err
				}
			} else {
				ctrl, sess, err = a.resumeEngine()
				if err != nil {
					return err
				}
				if sess == nil {
					return fmt.Errorf("%w: no active session, use --session ID", core.ErrNoActiveMode)
				}
			}

			out, err := ctrl.Export()
			if err != nil {
				return err
			}

			return writeOutput(outPath, out, fmt.Sprintf("Cabrillo log for %q", sess.Name))
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&sessionID, "session", "", "session ID to export (default: active session)")
	return cmd
}

func exportADIFCmd() *cobra.Command {
	var (
		outPath   string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "adif",
		Short: "Export contacts as ADIF",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var qsos []*core.QSO
			if sessionID != "" {
				qsos, err = a.qsos.BySession(sessionID)
			} else {
				qsos, err = a.qsos.All()
			}
			if err != nil {
				return err
			}
			if len(qsos) == 0 {
				return fmt.Errorf("nothing to export")
			}

			return writeOutput(outPath, adif.Export(qsos), fmt.Sprintf("%d contacts", len(qsos)))
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&sessionID, "session", "", "only contacts of this session")
	return cmd
}

// importCmd reads an ADIF file into the log.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.adi",
		Short: "Import contacts from an ADIF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			qsos, err := adif.Import(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(qsos) == 0 {
				return fmt.Errorf("no contacts found in %s", args[0])
			}

			for _, q := range qsos {
				if _, err := a.qsos.Add(q); err != nil {
					return fmt.Errorf("import %s: %w", q.Callsign, err)
				}
			}

			fmt.Printf("✅ Imported %d contacts from %s\n", len(qsos), args[0])
			return nil
		},
	}
}

// rebuildSession reconstructs the scoring engine for any session,
// active or ended, from its persisted contacts.
func rebuildSession(a *app, sess *storage.Session) (*modes.Controller, error) {
	qsos, err := a.qsos.BySession(sess.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]modes.Entry, 0, len(qsos))
	for _, q := range qsos {
		entries = append(entries, modes.EntryFromQSO(q))
	}

	ctrl := modes.NewController()
	if err := ctrl.Resume(sess.Config, entries); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func writeOutput(path, content, what string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s to %s\n", what, path)
	return nil
}
