// Package results persists simulation statistics. Records keep the
// d=<distance>/e=<rate>/<sim id> key layout of the original experiment
// output, so results from separately launched simulation instances merge by
// listing a shared store.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/aknapen/pinball/sim"
)

// ErrNotFound is returned when a record does not exist in a store.
var ErrNotFound = errors.New("record not found")

// Record is one finished simulation configuration and its statistics.
type Record struct {
	RunID         uuid.UUID  `json:"run_id"`
	SimID         int        `json:"sim_id"`
	Predecoder    string     `json:"predecoder"`
	Distance      int        `json:"distance"`
	DataErrorRate float64    `json:"data_error_rate"`
	MeasErrorRate float64    `json:"measurement_error_rate"`
	Report        sim.Report `json:"report"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Key returns the record's store key, matching the original experiments'
// output layout.
func (r Record) Key() string {
	return fmt.Sprintf("d=%d/e=%.4f/%d.json.zst", r.Distance, r.DataErrorRate, r.SimID)
}

// encode serializes a record as zstd-compressed JSON.
func encode(rec Record) ([]byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// decode deserializes a zstd-compressed JSON record.
func decode(data []byte) (Record, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Record{}, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
