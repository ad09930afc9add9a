package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inference-sim/plasma-sim/sim/dataset"
	"github.com/inference-sim/plasma-sim/sim/reference"
	"github.com/inference-sim/plasma-sim/sim/store"
)

// datasetSource names where a command reads its dataset from. Exactly one field is set.
type datasetSource struct {
	Path      string // JSON document
	ID        string // dataset in the store
	Reference bool   // embedded reference instance
}

func addSourceFlags(cmd *cobra.Command, src *datasetSource) {
	cmd.Flags().StringVar(&src.Path, "dataset", "", "Dataset JSON file")
	cmd.Flags().StringVar(&src.ID, "id", "", "Dataset id in the store")
	cmd.Flags().BoolVar(&src.Reference, "reference", false, "Use the embedded seed-(0,8) reference instance")
}

// load resolves the source. The store at db is opened only for an id.
func (src datasetSource) load(ctx context.Context, db string) (*dataset.Dataset, error) {
	set := 0
	for _, ok := range []bool{src.Path != "", src.ID != "", src.Reference} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --dataset, --id or --reference is required")
	}

	switch {
	case src.Reference:
		return reference.Load()
	case src.ID != "":
		s, err := store.Open(db)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Load(ctx, src.ID)
	default:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return dataset.ReadJSON(f)
	}
}

// createOutput opens path for writing; "" and "-" mean stdout.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// writeOutput runs write against the output at path and closes it. A close
// failure is reported when write itself succeeded.
func writeOutput(path string, write func(io.Writer) error) error {
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	return finishOutput(out, write(out))
}

// finishOutput closes out and returns err, or the close error when err is nil.
func finishOutput(out io.Closer, err error) error {
	if cerr := out.Close(); cerr != nil && err == nil {
		return fmt.Errorf("close output: %w", cerr)
	}
	return err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
