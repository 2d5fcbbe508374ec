package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/termlog/termlog/internal/config"
)

// configCmd groups configuration management.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change TermLog configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configStationCmd())
	cmd.AddCommand(configLookupCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			fmt.Println("⚙️  TermLog configuration")
			fmt.Println()
			fmt.Printf("   Data dir: %s\n", cfg.DataDir)
			fmt.Printf("   Database: %s\n", cfg.DBPath)
			fmt.Println()
			fmt.Printf("   Station: %s", orDash(cfg.Station.Callsign))
			if cfg.Station.Grid != "" {
				fmt.Printf(" (%s)", cfg.Station.Grid)
			}
			fmt.Println()
			fmt.Printf("   Lookup: %s", cfg.Lookup.Service)
			if cfg.Lookup.Username != "" {
				fmt.Printf(" as %s", cfg.Lookup.Username)
			}
			fmt.Println()
			fmt.Printf("   POTA spots: %s\n", cfg.Spots.POTAURL)
			fmt.Printf("   DX cluster: %s:%d\n", cfg.Spots.ClusterHost, cfg.Spots.ClusterPort)
			fmt.Printf("   Defaults: %.3f MHz, %s, RST %s\n",
				cfg.Defaults.Frequency, cfg.Defaults.Mode, cfg.Defaults.RST)
			return nil
		},
	}
}

func configStationCmd() *cobra.Command {
	var (
		callsign string
		name     string
		grid     string
		state    string
	)

	cmd := &cobra.Command{
		Use:   "station",
		Short: "Set station info",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if callsign != "" {
				cfg.Station.Callsign = strings.ToUpper(callsign)
			}
			if name != "" {
				cfg.Station.Name = name
			}
			if grid != "" {
				cfg.Station.Grid = strings.ToUpper(grid)
			}
			if state != "" {
				cfg.Station.State = strings.ToUpper(state)
			}

			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Println("✅ Station info saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&callsign, "call", "", "your callsign")
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&grid, "grid", "", "your grid square")
	cmd.Flags().StringVar(&state, "state", "", "your state/province")
	return cmd
}

func configLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup",
		Short: "Set up QRZ or HamQTH callsign lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)

			fmt.Print("Service (qrz, hamqth or none): ")
			svc, _ := reader.ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(svc)) {
			case "qrz":
				cfg.Lookup.Service = config.LookupQRZ
			case "hamqth":
				cfg.Lookup.Service = config.LookupHamQTH
			case "none", "":
				cfg.Lookup.Service = config.LookupNone
				cfg.Lookup.Username = ""
				cfg.Lookup.Password = ""
				if err := cfg.Save(configPath); err != nil {
					return err
				}
				fmt.Println("✅ Lookups disabled.")
				return nil
			default:
				return fmt.Errorf("unknown service %q", strings.TrimSpace(svc))
			}

			fmt.Printf("%s username: ", cfg.Lookup.Service)
			user, _ := reader.ReadString('\n')
			cfg.Lookup.Username = strings.TrimSpace(user)

			fmt.Printf("%s password: ", cfg.Lookup.Service)
			pass, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			fmt.Println()
			cfg.Lookup.Password = string(pass)

			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Printf("✅ %s lookups configured for %s.\n", cfg.Lookup.Service, cfg.Lookup.Username)
			fmt.Println("   Tip: TERMLOG_LOOKUP_USERNAME / TERMLOG_LOOKUP_PASSWORD override these.")
			return nil
		},
	}
}
