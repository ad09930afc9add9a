package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/plasma-sim/sim/reference"
	"github.com/inference-sim/plasma-sim/sim/store"
)

var (
	refOut  string
	refSave bool
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Write the embedded seed-(0,8) reference instance",
	Run: func(cmd *cobra.Command, args []string) {
		var s *store.Store
		if refSave {
			var err error
			s, err = store.Open(dbPath)
			if err != nil {
				logrus.Fatalf("Failed to open store: %v", err)
			}
			defer s.Close()
		}
		err := writeOutput(refOut, func(w io.Writer) error { return runReference(cmd.Context(), w, s) })
		if err != nil {
			logrus.Fatalf("Reference failed: %v", err)
		}
	},
}

// runReference writes the embedded document to w byte for byte and, when s
// is non-nil, saves it. Saving twice is not an error.
func runReference(ctx context.Context, w io.Writer, s *store.Store) error {
	if _, err := w.Write(reference.JSON()); err != nil {
		return fmt.Errorf("write reference: %w", err)
	}
	if s == nil {
		return nil
	}
	d, err := reference.Load()
	if err != nil {
		return err
	}
	err = s.Save(ctx, d)
	if errors.Is(err, store.ErrAlreadyExists) {
		logrus.Infof("Reference dataset %s already stored", d.ID)
		return nil
	}
	if err != nil {
		return err
	}
	logrus.Infof("Saved reference dataset %s", d.ID)
	return nil
}

func init() {
	referenceCmd.Flags().StringVar(&refOut, "out", "-", "Output JSON path (- for stdout)")
	referenceCmd.Flags().BoolVar(&refSave, "save", false, "Also save the reference instance to the store")

	rootCmd.AddCommand(referenceCmd)
}
