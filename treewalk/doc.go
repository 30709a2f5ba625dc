// Package treewalk provides Node[T], a mutable, mutex-protected tree node
// generic over its payload type. styledtree builds the parallel tree
// compute_styles returns from it, one node per element; engine.resolveSubtree
// grows that tree with a plain goroutine/WaitGroup fan-out over sibling
// subtrees (§5) rather than a channel-based traversal DSL, so this package's
// surface is kept to exactly what AddChild/Children/Parent require: concurrent
// writers attaching children from different goroutines while a reader walks
// Children(false) elsewhere in the same pass.
//
// Adapted from the teacher's tree package: the same parent-pointer,
// mutex-guarded child-slice discipline, trimmed to the operations the styled
// tree and its dump/explain readers actually call.
package treewalk
