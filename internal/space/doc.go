// Package space describes the reference coordinate spaces objects live in.
//
// A Space is a named, bounded, axis-aligned box with an Encoder mapping
// positions expressed in the space to the integer-like key domain used by
// storage indexes. One space of every catalog is the universe: a space that
// nominally contains every other, used as the default for shapes that name
// no space and as the frame of reference for Complement.
//
// Registry is the in-memory Catalog implementation. Stores embed or wrap a
// Registry to answer space lookups.
package space
