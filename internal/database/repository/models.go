package repository

import "time"

// Snapshot represents an exported pane.
type Snapshot struct {
	ID        string
	PaneID    int64
	PaneTitle string
	DomainMin float64
	DomainMax float64
	CreatedAt time.Time
	Series    []Series
}

// Series is one attached signal of a snapshot.
type Series struct {
	ID          string
	SnapshotID  string
	Position    int
	SignalIndex int
	SignalName  string
	Color       string
	Kind        string
	Points      []Point
}

// Point is one sampled value.
type Point struct {
	X float64
	Y float64
}
