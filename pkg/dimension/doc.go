// Package dimension computes transient distance annotations between the
// entities of a diagram.
//
// An [Annotator] measures:
//
//   - Pairs of components whose vertical centers lie within
//     [Options.Proximity] of each other get a horizontal measurement
//     between their facing edges; pairs whose horizontal centers are close
//     get a vertical one.
//   - Every component that belongs to an enclosure gets up to four edge
//     measurements to the matching enclosure edges, each only when the
//     gap exceeds [Options.MinEdgeGap].
//   - Pairs of enclosures, using [Options.GroupProximity], when
//     [Options.Enclosures] is set.
//
// Pairs that overlap or touch along the measured axis have no defined
// distance and are skipped, as are entities that have not been laid out.
//
// Values are multiplied by [Options.Scale] and rounded for display:
//
//	a := dimension.New(dimension.DefaultOptions())
//	n := a.Apply(d) // replaces every annotation of d
package dimension
