package engine

import (
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/roach88/mercator/internal/store"
)

// merge concatenates result sets into one group per space. Spaces keep the
// order of their first appearance and objects keep their order within the
// inputs. Empty groups are dropped.
func merge(sets ...store.ResultSet) store.ResultSet {
	index := map[string]int{}
	var out store.ResultSet
	for _, set := range sets {
		for _, g := range set {
			if len(g.Objects) == 0 {
				continue
			}
			i, ok := index[g.Space]
			if !ok {
				i = len(out)
				index[g.Space] = i
				out = append(out, store.Group{Space: g.Space})
			}
			out[i].Objects = append(out[i].Objects, g.Objects...)
		}
	}
	if out == nil {
		return store.ResultSet{}
	}
	return out
}

// keep filters every group with match, dropping groups left empty.
func keep(set store.ResultSet, match func(spaceID string, o store.Object) bool) store.ResultSet {
	out := store.ResultSet{}
	for _, g := range set {
		var objects []store.Object
		for _, o := range g.Objects {
			if match(g.Space, o) {
				objects = append(objects, o)
			}
		}
		if len(objects) > 0 {
			out = append(out, store.Group{Space: g.Space, Objects: objects})
		}
	}
	return out
}

// distinct removes duplicate objects within each space. Objects of
// different spaces are never duplicates of each other.
func distinct(set store.ResultSet) store.ResultSet {
	seen := map[string]*hashset.Set{}
	return keep(merge(set), func(spaceID string, o store.Object) bool {
		s, ok := seen[spaceID]
		if !ok {
			s = hashset.New()
			seen[spaceID] = s
		}
		key := o.Key()
		if s.Contains(key) {
			return false
		}
		s.Add(key)
		return true
	})
}

// positionSets indexes the positions of every object, per space.
func positionSets(set store.ResultSet) map[string]*hashset.Set {
	sets := map[string]*hashset.Set{}
	for _, g := range set {
		s, ok := sets[g.Space]
		if !ok {
			s = hashset.New()
			sets[g.Space] = s
		}
		for _, o := range g.Objects {
			s.Add(o.Position.Key())
		}
	}
	return sets
}

// probe keeps the objects of set whose position appears in the matching
// space of probeSet. Spaces absent from probeSet are dropped.
func probe(set, probeSet store.ResultSet) store.ResultSet {
	index := positionSets(probeSet)
	return keep(merge(set), func(spaceID string, o store.Object) bool {
		s, ok := index[spaceID]
		return ok && s.Contains(o.Position.Key())
	})
}

// subtract removes from set every object whose full identity appears in
// remove.
func subtract(set, remove store.ResultSet) store.ResultSet {
	removed := hashset.New()
	for _, g := range remove {
		for _, o := range g.Objects {
			removed.Add(o.Key())
		}
	}
	return keep(merge(set), func(_ string, o store.Object) bool {
		return !removed.Contains(o.Key())
	})
}
