// Package harness runs query conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files pairing a dataset with a query and the expected
// outcome:
//
//	name: union_of_boxes
//	description: "Union concatenates both operands"
//	dataset: |
//	  spaces: Universe: {low: [0, 0], high: [10, 10]}
//	  objects: [{id: "a", position: [1, 1]}]
//	query:
//	  union:
//	    - inside: {hyperrectangle: {corners: [[0, 0], [2, 2]]}}
//	    - inside: {point: {position: [1, 1]}}
//	viewport: "0,0;10,10"
//	expect:
//	  valid: true
//	  type: "Vector[Int, Int]"
//	  count: 2
//	  per_space: {Universe: 2}
//	  ids: [a, a]
//	  positions: [[1, 1]]
//
// The dataset is CUE text (see package dataset); dataset_file names a CUE
// file relative to the scenario instead. The query is an AST document (see
// ast.Decoder).
//
// # Expectations
//
//   - valid: whether validation succeeds
//   - type: the validated type, e.g. "Vector[Float, Float]"
//   - error, error_kind: a substring of the turn error and its kind
//     (validation, prediction, execution)
//   - predicted: the predicted volume
//   - count, per_space: object counts, total and per space
//   - ids: object identifiers in result order
//   - positions: the distinct object positions, in any order
//
// # Deterministic Runs
//
// Every scenario runs against a fresh in-memory SQLite store loaded with its
// dataset, with a fixed query id, so snapshots compared with RunWithGolden
// are reproducible.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/union.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
