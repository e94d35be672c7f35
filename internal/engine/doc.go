// Package engine interprets query expression trees.
//
// ARCHITECTURE:
//
// Four independent interpreters recurse over the same immutable tree:
//   - Validator: structural type checking (Validate)
//   - Predictor: volume estimate used to order intersections (Predict)
//   - Evaluate: predicate evaluation against one object
//   - Executor: set algebra producing per-space result groups
//
// None of them keeps state between calls. Engine chains them for one query
// turn: validate, then predict, then execute.
//
// Query Turn:
// 1. Validate the projection; a failure ends the turn
// 2. Predict its volume; a failure is logged and ignored
// 3. Execute the bag against the Store
// 4. Return the grouped results in a Report
//
// SPACES:
//
// Every result is a list of groups keyed by reference space, and operators
// never merge objects across spaces. Three operators have space rules of
// their own:
//   - Complement is taken against the universe, whatever space its operand
//     reports
//   - Outside is taken against the shape's own space
//   - Intersection keeps only the spaces present on both sides
//
// BOUNDARIES:
//
// Inside includes the shape surface. Outside shrinks rectangles and spheres
// by Parameters.Epsilon before subtracting, so surface objects count as
// outside. The tolerance is absolute: past magnitudes where epsilon is below
// half an ulp the shrink rounds away and the surface stays inside.
//
// ERRORS:
//
// All failures are *QueryError values whose Kind names the phase. The
// first failure aborts the interpretation; there is no partial result.
package engine
