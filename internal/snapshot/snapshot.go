// Package snapshot defines the read-only per-tick state views handed
// to external rendering and plotting collaborators. The engine never
// formats or renders these itself; it only fills in the structs.
package snapshot

import "github.com/mkarlin/gridscape/internal/grid"

// Version is the snapshot schema version sent to observers.
const Version = 1

// Model names carried in snapshot headers and the run archive.
const (
	ModelSchelling  = "schelling"
	ModelSugarscape = "sugarscape"
)

// Header identifies a snapshot's model and tick.
type Header struct {
	Version int    `json:"version"`
	Model   string `json:"model"`
	Tick    int    `json:"tick"`
	Size    int    `json:"size"`
}

// SchellingV1 is the full observable state of a Schelling model after
// one tick. Cells holds the size x size lattice in row-major order:
// 0 empty, 1 type A, 2 type B.
type SchellingV1 struct {
	Header      Header  `json:"header"`
	Cells       []int8  `json:"cells"`
	Segregation float64 `json:"segregation"`
}

// AgentV1 is one Sugarscape agent's observable attributes.
type AgentV1 struct {
	Loc        grid.Coord `json:"loc"`
	Age        int        `json:"age"`
	Vision     int        `json:"vision"`
	Metabolism float64    `json:"metabolism"`
	Sugar      float64    `json:"sugar"`
}

// SugarscapeV1 is the full observable state of a Sugarscape model
// after one tick. Resource and Capacity are row-major lattices.
type SugarscapeV1 struct {
	Header   Header    `json:"header"`
	Resource []float64 `json:"resource"`
	Capacity []int     `json:"capacity"`
	Agents   []AgentV1 `json:"agents"`
}

// SeriesV1 carries a recorded scalar time series for plotting.
type SeriesV1 struct {
	Model  string    `json:"model"`
	Metric string    `json:"metric"`
	Values []float64 `json:"values"`
}
