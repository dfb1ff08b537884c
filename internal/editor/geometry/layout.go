package geometry

import (
	"math"

	"floorplanner/internal/editor/models"
)

// ============================================================
// Imported layout post-processing
// ============================================================

// LayoutOptions tune ValidateAndOptimizeZones. The defaults reproduce the
// behaviour the editor has always shipped with.
type LayoutOptions struct {
	// MinSide is the smallest accepted zone width/height.
	MinSide float64
	// RejectRatio: a zone overlapping an accepted zone by more than this
	// share of its own area is not accepted as is.
	RejectRatio float64
	// AcceptRatio: a relocated zone is accepted when its worst overlap with
	// accepted zones is at most this share of its own area.
	AcceptRatio float64
	// Offsets are tried in order when a zone overlaps too much.
	Offsets []models.Point
}

const (
	DefaultMinZoneSide      = 50.0
	DefaultRejectRatio      = 0.3
	DefaultAcceptRatio      = 0.2
	DefaultRelocationOffset = 50.0
	DefaultDiagonalOffset   = 30.0
)

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		MinSide:     DefaultMinZoneSide,
		RejectRatio: DefaultRejectRatio,
		AcceptRatio: DefaultAcceptRatio,
		Offsets: []models.Point{
			{X: DefaultRelocationOffset, Y: 0},
			{X: -DefaultRelocationOffset, Y: 0},
			{X: 0, Y: DefaultRelocationOffset},
			{X: 0, Y: -DefaultRelocationOffset},
			{X: DefaultDiagonalOffset, Y: DefaultDiagonalOffset},
			{X: -DefaultDiagonalOffset, Y: -DefaultDiagonalOffset},
		},
	}
}

// LayoutReport lists what happened to each input zone.
type LayoutReport struct {
	Accepted  []models.Zone `json:"accepted"`
	Relocated []string      `json:"relocated"`
	Dropped   []string      `json:"dropped"`
}

// ValidateAndOptimizeZones cleans up an externally generated layout so that
// every zone has at least the minimum side, lies inside the canvas and does
// not overlap previously accepted zones too much.
func ValidateAndOptimizeZones(zones []models.Zone, canvasWidth, canvasHeight float64) []models.Zone {
	return ValidateAndOptimizeZonesWith(zones, canvasWidth, canvasHeight, DefaultLayoutOptions()).Accepted
}

func ValidateAndOptimizeZonesWith(zones []models.Zone, canvasWidth, canvasHeight float64, opts LayoutOptions) LayoutReport {
	report := LayoutReport{Accepted: []models.Zone{}, Relocated: []string{}, Dropped: []string{}}

	for _, z := range zones {
		fitted, ok := fitToCanvas(z, canvasWidth, canvasHeight, opts.MinSide)
		if !ok {
			report.Dropped = append(report.Dropped, z.ZoneID)
			continue
		}

		if worstOverlap(fitted, report.Accepted) <= opts.RejectRatio {
			report.Accepted = append(report.Accepted, fitted)
			continue
		}

		relocated, ok := relocate(fitted, report.Accepted, canvasWidth, canvasHeight, opts)
		if !ok {
			report.Dropped = append(report.Dropped, z.ZoneID)
			continue
		}
		report.Accepted = append(report.Accepted, relocated)
		report.Relocated = append(report.Relocated, z.ZoneID)
	}

	return report
}

// fitToCanvas enforces the minimum side and clamps the zone inside
// [0, w] x [0, h]. It fails when the canvas itself is smaller than minSide.
func fitToCanvas(z models.Zone, canvasWidth, canvasHeight, minSide float64) (models.Zone, bool) {
	if canvasWidth < minSide || canvasHeight < minSide {
		return z, false
	}

	z.Width = clamp(math.Max(z.Width, minSide), minSide, canvasWidth)
	z.Height = clamp(math.Max(z.Height, minSide), minSide, canvasHeight)
	z.X = clamp(z.X, 0, canvasWidth-z.Width)
	z.Y = clamp(z.Y, 0, canvasHeight-z.Height)
	return z, true
}

func relocate(z models.Zone, accepted []models.Zone, canvasWidth, canvasHeight float64, opts LayoutOptions) (models.Zone, bool) {
	for _, off := range opts.Offsets {
		candidate := z
		candidate.X = clamp(z.X+off.X, 0, canvasWidth-z.Width)
		candidate.Y = clamp(z.Y+off.Y, 0, canvasHeight-z.Height)
		if worstOverlap(candidate, accepted) <= opts.AcceptRatio {
			return candidate, true
		}
	}
	return z, false
}

// worstOverlap returns the largest share of z's area covered by any one zone.
func worstOverlap(z models.Zone, others []models.Zone) float64 {
	area := z.Rect().Area()
	if area <= 0 {
		return 0
	}
	worst := 0.0
	for _, o := range others {
		if ratio := OverlapArea(z.Rect(), o.Rect()) / area; ratio > worst {
			worst = ratio
		}
	}
	return worst
}
