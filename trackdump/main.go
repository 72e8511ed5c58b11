// trackdump lists the tracks held in a store and can dump the live DMX output of OLA.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/lumen/config"
	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/store"
	"github.com/robmorgan/lumen/track"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		universe   int
	)

	cmd := &cobra.Command{
		Use:          "trackdump",
		Short:        "List stored light tracks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := dumpTracks(cmd.Context(), cfg); err != nil {
				return err
			}
			if universe > 0 {
				return dumpUniverse(cfg, universe)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "lumen.yaml", "path to the config file")
	cmd.Flags().IntVar(&universe, "dmx", 0, "also dump this DMX universe from OLA")
	return cmd
}

func dumpTracks(ctx context.Context, cfg config.Config) error {
	st, closer, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path, clock.RealClock{})
	if err != nil {
		return err
	}
	defer closer()

	entries, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATES\tLENGTH\tCHANNELS")
	for _, entry := range entries {
		t, err := track.Unmarshal(entry.Name, entry.Data)
		if err != nil {
			logger.GetProjectLogger().WithField("track", entry.Name).Warnf("Cannot decode track: %v", err)
			continue
		}
		channels := map[string]struct{}{}
		for _, s := range t.States() {
			for name := range s.Lights {
				channels[name] = struct{}{}
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.3fs\t%d\n", t.Name(), t.Len(), t.Length(), len(channels))
	}
	return w.Flush()
}

func dumpUniverse(cfg config.Config, universe int) error {
	client, err := gola.New(cfg.OLA.Address)
	if err != nil {
		return fmt.Errorf("could not connect to OLA: %w", err)
	}
	defer client.Close()

	x, err := client.GetDmx(universe)
	if err != nil {
		return fmt.Errorf("GetDmx: %d: %w", universe, err)
	}
	fmt.Printf("universe %d: %v\n", universe, x.Data)
	return nil
}
