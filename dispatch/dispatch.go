// Package dispatch generates indirect-dispatch workgroup counts so a
// pipeline stage whose element count is only known after a prior stage runs
// (for example, the run count produced by runs.Find) can size its own
// dispatch without a host round-trip.
package dispatch

import "github.com/ChristianF88/onesweep/grid"

// WorkgroupCount is a 1-D-extended dispatch shape; Y and Z are always 1 for
// every kernel in this library, which only ever partitions its input along
// one dimension.
type WorkgroupCount struct {
	X, Y, Z uint32
}

// Generate computes the workgroup counts for a histogram-shaped kernel
// (segmentSizeHist elements per workgroup) and a scatter-shaped kernel
// (segmentSizeScatter elements per workgroup) that both need to cover
// count elements.
func Generate(count, segmentSizeHist, segmentSizeScatter uint32) (hist, scatter WorkgroupCount) {
	hist = WorkgroupCount{X: grid.CeilDiv(count, segmentSizeHist), Y: 1, Z: 1}
	scatter = WorkgroupCount{X: grid.CeilDiv(count, segmentSizeScatter), Y: 1, Z: 1}
	return hist, scatter
}
