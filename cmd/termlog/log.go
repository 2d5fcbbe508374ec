package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/termlog/termlog/internal/config"
	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/logging"
	"github.com/termlog/termlog/internal/lookup"
	"github.com/termlog/termlog/internal/modes"
	"github.com/termlog/termlog/internal/storage"
)

// initCmd sets up the data directory, config and database.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Set up TermLog (station info, config, database)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			fmt.Println("📻 Welcome to TermLog!")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)

			fmt.Print("Your callsign: ")
			call, _ := reader.ReadString('\n')
			cfg.Station.Callsign = strings.ToUpper(strings.TrimSpace(call))
			if cfg.Station.Callsign == "" {
				return fmt.Errorf("a callsign is required")
			}

			fmt.Print("Your name (optional): ")
			name, _ := reader.ReadString('\n')
			cfg.Station.Name = strings.TrimSpace(name)

			fmt.Print("Your grid square (optional, e.g. DM79): ")
			grid, _ := reader.ReadString('\n')
			cfg.Station.Grid = strings.ToUpper(strings.TrimSpace(grid))

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return err
			}
			if err := cfg.Save(configPath); err != nil {
				return err
			}

			db, err := storage.Open(storage.Config{Path: cfg.DBPath})
			if err != nil {
				return fmt.Errorf("create log database: %w", err)
			}
			defer db.Close()
			if err := db.Migrate(); err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("✅ TermLog ready. Config: %s\n", cfg.DataDir)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("   termlog log W1AW -f 14.250    - log a contact")
			fmt.Println("   termlog mode start pota ...   - start an operating session")
			fmt.Println("   termlog config lookup         - set up QRZ/HamQTH lookups")
			return nil
		},
	}
}

// logCmd logs a single contact.
func logCmd() *cobra.Command {
	var (
		freq       float64
		modeStr    string
		rstSent    string
		rstRcvd    string
		exchange   string
		park       string
		myPark     string
		zone       int
		notes      string
		opName     string
		txPower    float64
		strictDupe bool
		noLookup   bool
	)

	cmd := &cobra.Command{
		Use:   "log CALLSIGN",
		Short: "Log a contact",
		Long: `Logs a contact with the given station.

If an operating session is active (contest, POTA, Field Day), the
contact is checked against the session's dupe rules, stamped with the
outgoing exchange and counted toward the session score. Duplicates are
logged anyway unless --strict-dupe is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			mode := core.EmissionMode(strings.ToUpper(a.cfg.Defaults.Mode))
			if modeStr != "" {
				if mode, err = core.ParseEmissionMode(modeStr); err != nil {
					return err
				}
			}
			if freq == 0 {
				freq = a.cfg.Defaults.Frequency
			}
			if rstSent == "" {
				rstSent = a.cfg.Defaults.RST
			}
			if rstRcvd == "" {
				rstRcvd = a.cfg.Defaults.RST
			}

			q := &core.QSO{
				Callsign:     strings.ToUpper(args[0]),
				Frequency:    freq,
				Mode:         mode,
				RSTSent:      rstSent,
				RSTRcvd:      rstRcvd,
				Time:         time.Now().UTC(),
				Notes:        notes,
				ExchangeRcvd: exchange,
				Name:         opName,
				CQZone:       zone,
				POTARef:      strings.ToUpper(park),
				TxPower:      txPower,
				Operator:     a.cfg.Station.Callsign,
				MyGrid:       a.cfg.Station.Grid,
			}

			ctrl, sess, err := a.resumeEngine()
			if err != nil {
				return err
			}
			if sess != nil {
				q.SessionID = sess.ID
			}
			if sess != nil && len(sess.Config.ParkRefs) > 0 {
				if q.MyPOTA, err = resolveMyPark(sess.Config.ParkRefs, myPark); err != nil {
					return err
				}
			} else if myPark != "" {
				return fmt.Errorf("%w: --my-park needs an active activation", core.ErrInvalidInput)
			}

			if !noLookup && a.cfg.Lookup.AutoLookup {
				enrichFromLookup(a.cfg.Lookup, q)
			}

			// Dupe check before anything is recorded
			var isDup bool
			if ctrl.Active() {
				isDup = ctrl.IsDuplicate(modes.EntryFromQSO(q))
			} else {
				isDup, err = a.qsos.CheckDupe(q.Callsign, q.Mode, "")
				if err != nil {
					return err
				}
			}
			if isDup && strictDupe {
				return fmt.Errorf("%w: %s already worked", core.ErrDuplicateRecord, q.Callsign)
			}

			_, sent := ctrl.LogContact(q)

			id, err := a.qsos.Add(q)
			if err != nil {
				return err
			}

			if isDup {
				fmt.Printf("⚠️  DUPE: %s already worked under current rules (logged anyway)\n", q.Callsign)
			}
			fmt.Printf("✅ #%d  %s  %.3f MHz (%s)  %s  %s/%s\n",
				id, q.Callsign, q.Frequency, q.Band(), q.Mode, q.RSTSent, q.RSTRcvd)
			if sent != "" {
				fmt.Printf("   Exchange sent: %s\n", sent)
			}
			if ctrl.Active() {
				fmt.Printf("   %s\n", ctrl.StatusText())
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&freq, "freq", "f", 0, "frequency in MHz (default from config)")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", "", "mode: SSB, CW, FM, FT8, ... (default from config)")
	cmd.Flags().StringVar(&rstSent, "rst-sent", "", "signal report sent")
	cmd.Flags().StringVar(&rstRcvd, "rst-rcvd", "", "signal report received")
	cmd.Flags().StringVarP(&exchange, "exchange", "x", "", "exchange received (serial, zone, class+section, ...)")
	cmd.Flags().StringVarP(&park, "park", "p", "", "their POTA park reference (e.g. US-1211)")
	cmd.Flags().StringVar(&myPark, "my-park", "", "which of my activation parks this contact credits (default primary)")
	cmd.Flags().IntVar(&zone, "zone", 0, "their CQ zone (contest multiplier)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&opName, "name", "", "operator name")
	cmd.Flags().Float64Var(&txPower, "power", 0, "transmit power in watts")
	cmd.Flags().BoolVar(&strictDupe, "strict-dupe", false, "refuse to log duplicates")
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "skip the callsign lookup")

	return cmd
}

// resolveMyPark picks which of the activation's parks this contact
// credits. Unspecified contacts credit the primary park; anything else
// must name a park that is part of the session.
func resolveMyPark(parks []string, flag string) (string, error) {
	if flag == "" {
		return parks[0], nil
	}
	want := strings.ToUpper(strings.TrimSpace(flag))
	for _, p := range parks {
		if p == want {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not part of this activation (parks: %s)",
		core.ErrInvalidInput, want, strings.Join(parks, ", "))
}

// enrichFromLookup fills station info the operator didn't supply.
// Lookup failures only cost us the enrichment, never the contact.
func enrichFromLookup(cfg config.LookupConfig, q *core.QSO) {
	svc, err := lookup.NewService(cfg)
	if err != nil {
		if !errors.Is(err, core.ErrLookupDisabled) {
			logging.Warn("lookup unavailable: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := svc.Lookup(ctx, q.Callsign)
	if err != nil {
		logging.WithField("callsign", q.Callsign).Debug("lookup failed: %v", err)
		return
	}

	if q.Name == "" {
		q.Name = res.Name
	}
	if q.QTH == "" {
		q.QTH = res.City
	}
	if q.State == "" {
		q.State = res.State
	}
	if q.Country == "" {
		q.Country = res.Country
	}
	if q.GridSquare == "" {
		q.GridSquare = res.GridSquare
	}
}

// recentCmd lists the latest contacts.
func recentCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			qsos, err := a.qsos.Recent(count)
			if err != nil {
				return err
			}
			if len(qsos) == 0 {
				fmt.Println("No contacts logged yet.")
				return nil
			}
			printQSOTable(qsos)

			total, err := a.qsos.Count("")
			if err == nil {
				fmt.Printf("\n%d contacts in log\n", total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 15, "number of contacts to show")
	return cmd
}

// searchCmd finds contacts by (partial) callsign.
func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search CALLSIGN",
		Short: "Search the log by callsign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			qsos, err := a.qsos.Search(args[0])
			if err != nil {
				return err
			}
			if len(qsos) == 0 {
				fmt.Printf("No contacts matching %q.\n", strings.ToUpper(args[0]))
				return nil
			}
			printQSOTable(qsos)
			return nil
		},
	}
}

func printQSOTable(qsos []*core.QSO) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tCALL\tFREQ\tBAND\tMODE\tRST\tEXCH\tNAME")
	for _, q := range qsos {
		exch := q.ExchangeRcvd
		if exch == "" && q.POTARef != "" {
			exch = q.POTARef
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3f\t%s\t%s\t%s/%s\t%s\t%s\n",
			q.ID, q.DateString(), q.TimeString(), q.Callsign,
			q.Frequency, q.Band(), q.Mode, q.RSTSent, q.RSTRcvd, exch, q.Name)
	}
	w.Flush()
}
