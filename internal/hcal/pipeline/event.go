package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
	"github.com/banshee-data/hcal.cluster/internal/hcal/clustering"
)

// Event is one readout of the calorimeter.
type Event struct {
	ID     uuid.UUID  `json:"id"`
	Run    int        `json:"run"`
	Number int        `json:"number"`
	Hits   []hcal.Hit `json:"hits"`
}

// Result is the clustering output for one event.
type Result struct {
	EventID uuid.UUID
	Run     int
	Number  int

	Clusters []clustering.Cluster
	Rejected []clustering.HitError
	Filtered int

	Transitions     map[int]float64
	Seeds           int
	Iterations      int
	ClusteredEnergy float64
}

// DecodeEvents reads a stream of JSON-encoded events from r. Events may be
// concatenated or newline separated.
func DecodeEvents(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for {
		var ev Event
		err := dec.Decode(&ev)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: decode event %d: %w", len(events), err)
		}
		events = append(events, ev)
	}
}
