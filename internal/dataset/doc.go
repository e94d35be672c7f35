// Package dataset loads spatial datasets written in CUE.
//
// A dataset declares reference spaces and the objects positioned in them:
//
//	universe: "Universe"
//	spaces: {
//		Universe: {low: [0, 0], high: [10, 10]}
//		brain: {low: [-100, -100], high: [100, 100], offset: [-100, -100]}
//	}
//	objects: [
//		{id: "n1", type: "neuron", position: [1, 2], attributes: {layer: 4}},
//		{space: "brain", position: [-50, 0]},
//	]
//
// Files are unified with the embedded #Dataset schema before decoding, so
// type errors are reported with CUE positions. Objects without a space live
// in the universe; objects without an id are named after their space and
// index, e.g. "Universe-3".
package dataset
