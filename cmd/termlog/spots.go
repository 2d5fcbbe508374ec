package main

import (
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
	"github.com/termlog/termlog/internal/spots"
)

// spotsCmd groups the spot feeds.
func spotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spots",
		Short: "Show who is on the air (POTA spots, DX cluster)",
	}
	cmd.AddCommand(spotsPOTACmd())
	cmd.AddCommand(spotsClusterCmd())
	return cmd
}

func spotsPOTACmd() *cobra.Command {
	var (
		band    string
		modeStr string
		count   int
	)

	cmd := &cobra.Command{
		Use:   "pota",
		Short: "Show current POTA activator spots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			all, err := spots.NewPOTAClient(cfg.Spots.POTAURL).Fetch(ctx)
			if err != nil {
				return err
			}

			filtered := spotFilter(band, modeStr).Apply(all)
			if len(filtered) == 0 {
				fmt.Println("No spots match.")
				return nil
			}
			if count > 0 && len(filtered) > count {
				filtered = filtered[:count]
			}
			printSpotTable(filtered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&band, "band", "b", "", "only this band (e.g. 20m)")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", "", "only this mode (e.g. CW)")
	cmd.Flags().IntVarP(&count, "count", "n", 25, "max spots to show")
	return cmd
}

func spotsClusterCmd() *cobra.Command {
	var (
		band    string
		modeStr string
		count   int
		wait    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Stream spots from the DX cluster",
		Long: `Connects to the configured DX cluster node, logs in with your
callsign and prints spots as they arrive. Stops after --count spots
or --wait, whichever comes first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Station.Callsign == "" {
				return fmt.Errorf("cluster login needs your callsign, run 'termlog init'")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			feed, err := spots.DialCluster(ctx, cfg.Spots.ClusterHost, cfg.Spots.ClusterPort, cfg.Station.Callsign)
			if err != nil {
				return err
			}
			defer feed.Close()

			fmt.Printf("Connected to %s:%d as %s\n\n",
				cfg.Spots.ClusterHost, cfg.Spots.ClusterPort, strings.ToUpper(cfg.Station.Callsign))

			filter := spotFilter(band, modeStr)
			seen := 0
			for seen < count {
				spot, err := feed.Next(ctx)
				if errors.Is(err, core.ErrSpotFeedClosed) || errors.Is(err, context.DeadlineExceeded) {
					break
				}
				if err != nil {
					return err
				}
				if !filter.Match(*spot) {
					continue
				}
				fmt.Printf("%s  %-10s %8.1f kHz  %-4s %-5s de %s  %s\n",
					spot.TimeString(), spot.Callsign, spot.Frequency*1000,
					spot.Band(), orDash(spot.Mode), spot.Spotter, spot.Info)
				seen++
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&band, "band", "b", "", "only this band (e.g. 20m)")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", "", "only this mode (e.g. CW)")
	cmd.Flags().IntVarP(&count, "count", "n", 20, "stop after this many spots")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Minute, "stop after this long")
	return cmd
}

func spotFilter(band, mode string) spots.Filter {
	return spots.Filter{
		Band: core.Band(strings.ToLower(band)),
		Mode: strings.ToUpper(mode),
	}
}

func printSpotTable(list []spots.Spot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCALL\tFREQ\tBAND\tMODE\tINFO\tBY")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\t%s\t%s\t%s\n",
			s.TimeString(), s.Callsign, s.Frequency, orDash(string(s.Band())),
			orDash(s.Mode), s.Info, s.Spotter)
	}
	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
