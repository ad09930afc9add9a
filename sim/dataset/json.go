package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/inference-sim/plasma-sim/sim"
)

// document is the on-disk JSON form: one object holding every array, so
// parameters and measurements are always read and written together.
type document struct {
	ID     string           `json:"id"`
	Seed   string           `json:"seed"`
	Arrays map[string]Array `json:"arrays"`
}

// WriteJSON writes d as one indented JSON document.
func WriteJSON(w io.Writer, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{ID: d.ID, Seed: d.Seed.String(), Arrays: d.Arrays()}); err != nil {
		return fmt.Errorf("encoding dataset %s: %w", d.ID, err)
	}
	return nil
}

// ReadJSON reads one document written by WriteJSON. A missing id is replaced
// by a fresh one; a missing seed leaves the zero Seed.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	d, err := FromArrays(doc.Arrays)
	if err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("decoding dataset: id %q: %w", doc.ID, err)
		}
		d.ID = id.String()
	}
	if doc.Seed != "" {
		seed, err := sim.ParseSeed(doc.Seed)
		if err != nil {
			return nil, fmt.Errorf("decoding dataset: %w", err)
		}
		d.Seed = seed
	}
	return d, nil
}
