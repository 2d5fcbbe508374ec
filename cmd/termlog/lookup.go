package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/termlog/termlog/internal/config"
	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/lookup"
)

// lookupCmd queries the configured callsign database.
func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup CALLSIGN",
		Short: "Look up a callsign on QRZ or HamQTH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			svc, err := lookup.NewService(cfg.Lookup)
			if errors.Is(err, core.ErrLookupDisabled) {
				return fmt.Errorf("no lookup service configured, run 'termlog config lookup'")
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			res, err := svc.Lookup(ctx, args[0])
			if errors.Is(err, core.ErrLookupNotFound) {
				fmt.Printf("%s not found on %s.\n", strings.ToUpper(args[0]), cfg.Lookup.Service)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("📡 %s\n", res.Callsign)
			if res.Name != "" {
				fmt.Printf("   Name: %s\n", res.Name)
			}
			fmt.Printf("   QTH: %s\n", res.Location())
			if res.GridSquare != "" {
				fmt.Printf("   Grid: %s\n", res.GridSquare)
			}
			if res.QSLVia != "" {
				fmt.Printf("   QSL via: %s\n", res.QSLVia)
			}
			return nil
		},
	}
}
