package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/plasma-sim/sim/dataset"
	"github.com/inference-sim/plasma-sim/sim/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and manage the dataset store",
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets, oldest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(s *store.Store) error {
			return runStoreList(cmd.Context(), cmd.OutOrStdout(), s)
		})
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Write a stored dataset as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(s *store.Store) error {
			return runStoreShow(cmd.Context(), cmd.OutOrStdout(), s, args[0])
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored dataset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(s *store.Store) error {
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			logrus.Infof("Deleted dataset %s", args[0])
			return nil
		})
	},
}

// withStore opens the store at dbPath for the duration of fn.
func withStore(fn func(*store.Store) error) {
	s, err := store.Open(dbPath)
	if err != nil {
		logrus.Fatalf("Failed to open store: %v", err)
	}
	err = fn(s)
	if cerr := s.Close(); cerr != nil {
		logrus.Warnf("Closing store: %v", cerr)
	}
	if err != nil {
		logrus.Fatalf("%v", err)
	}
}

func runStoreList(ctx context.Context, w io.Writer, s *store.Store) error {
	summaries, err := s.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEED\tK\tW\tS\tSHIFT\tCREATED")
	for _, sum := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.4f\t%s\n",
			sum.ID, sum.Seed, sum.NumBins, sum.NumWavelengths, sum.NumSensors, sum.Shift,
			sum.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func runStoreShow(ctx context.Context, w io.Writer, s *store.Store, id string) error {
	d, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	return dataset.WriteJSON(w, d)
}

func init() {
	storeCmd.AddCommand(storeListCmd, storeShowCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}
