package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/termlog/termlog/internal/modes"
)

// modeCmd groups the operating-mode session commands.
func modeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Manage operating sessions (contest, POTA, Field Day)",
	}
	cmd.AddCommand(modeStartCmd())
	cmd.AddCommand(modeStatusCmd())
	cmd.AddCommand(modeEndCmd())
	return cmd
}

func modeStartCmd() *cobra.Command {
	var (
		name     string
		contest  string
		format   string
		exchange string
		parks    []string
		state    string
		grid     string
		class    string
		section  string
		power    string
		callsign string
	)

	cmd := &cobra.Command{
		Use:   "start MODE",
		Short: "Start an operating session",
		Long: `Starts an operating session. MODE is one of:

  contest      contest with serial/zone exchange and N x mults scoring
  pota         POTA activation (use --parks, --state)
  pota-hunter  POTA hunting, scored by distinct parks worked
  fieldday     ARRL Field Day (use --class, --section, --power)
  general      plain logging, ends any active session

Any previously active session is ended with its final score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := modes.ParseKind(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			// Close out whatever was running first
			ctrl, prev, err := a.resumeEngine()
			if err != nil {
				return err
			}
			if prev != nil {
				score, err := ctrl.End()
				if err != nil {
					return err
				}
				if err := a.sessions.End(prev.ID, score.TotalScore); err != nil {
					return err
				}
				fmt.Printf("Ended %s session %q: %s\n", prev.Kind.DisplayName(), prev.Name, score.Summary())
			}

			if kind == modes.KindGeneral {
				fmt.Println("✅ General logging. No dupe rules, no scoring.")
				return nil
			}

			if callsign == "" {
				callsign = a.cfg.Station.Callsign
			}
			if grid == "" {
				grid = a.cfg.Station.Grid
			}

			cfg := modes.Config{
				Kind:           kind,
				MyCallsign:     strings.ToUpper(callsign),
				ContestName:    contest,
				ExchangeFormat: format,
				MyExchange:     exchange,
				ParkRefs:       upperAll(parks),
				MyState:        strings.ToUpper(state),
				MyGrid:         strings.ToUpper(grid),
				MyClass:        strings.ToUpper(class),
				MySection:      strings.ToUpper(section),
				PowerCat:       strings.ToUpper(power),
			}

			fresh := modes.NewController()
			if err := fresh.Start(cfg); err != nil {
				return err
			}

			if name == "" {
				name = fresh.Name()
			}
			sess, err := a.sessions.Create(cfg, name)
			if err != nil {
				return err
			}

			fmt.Printf("✅ Started %s session %q\n", kind.DisplayName(), sess.Name)
			fmt.Printf("   %s\n", fresh.StatusText())
			if out := fresh.OutgoingExchange(); out != "" {
				fmt.Printf("   Next exchange: %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "session name (defaults to the mode's display name)")
	cmd.Flags().StringVar(&contest, "contest", "", "contest name for the Cabrillo header (e.g. CQ-WW-SSB)")
	cmd.Flags().StringVar(&format, "format", "", `contest exchange format (default "RST+SN")`)
	cmd.Flags().StringVar(&exchange, "exchange", "", "your fixed contest exchange part (e.g. CQ zone)")
	cmd.Flags().StringSliceVar(&parks, "parks", nil, "park references you are activating (comma separated)")
	cmd.Flags().StringVar(&state, "state", "", "your state/province for the POTA exchange")
	cmd.Flags().StringVar(&grid, "grid", "", "your grid square (default from config)")
	cmd.Flags().StringVar(&class, "class", "", "Field Day class (e.g. 2A)")
	cmd.Flags().StringVar(&section, "section", "", "ARRL section (e.g. CO)")
	cmd.Flags().StringVar(&power, "power", "", "Field Day power category: QRP, LOW or HIGH")
	cmd.Flags().StringVar(&callsign, "call", "", "station callsign (default from config)")

	return cmd
}

func modeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session and its score",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl, sess, err := a.resumeEngine()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Println("General logging, no active session.")
				fmt.Println("Start one with 'termlog mode start contest|pota|pota-hunter|fieldday'.")
				return nil
			}

			score, err := ctrl.CurrentScore()
			if err != nil {
				return err
			}

			fmt.Printf("📊 %s session %q\n", sess.Kind.DisplayName(), sess.Name)
			fmt.Printf("   Started: %s UTC\n", sess.StartedAt.UTC().Format("2006-01-02 15:04"))
			fmt.Printf("   %s\n", ctrl.StatusText())
			fmt.Printf("   Score: %s\n", score.Summary())
			for _, p := range score.Parks {
				mark := " "
				if p.Qualified {
					mark = "✓"
				}
				fmt.Printf("   %s %s: %d contacts\n", mark, p.Ref, p.Credits)
			}
			if out := ctrl.OutgoingExchange(); out != "" {
				fmt.Printf("   Next exchange: %s\n", out)
			}
			return nil
		},
	}
}

func modeEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the active session and record its final score",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl, sess, err := a.resumeEngine()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Println("No active session.")
				return nil
			}

			score, err := ctrl.End()
			if err != nil {
				return err
			}
			if err := a.sessions.End(sess.ID, score.TotalScore); err != nil {
				return err
			}

			fmt.Printf("✅ Ended %s session %q\n", sess.Kind.DisplayName(), sess.Name)
			fmt.Printf("   Final: %s\n", score.Summary())
			return nil
		},
	}
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
