// Package blocks provides the static catalog of building block kinds.
//
// A building block is a named class of design entity (for example the
// cup of a hip implant or the reamed pelvis it is built on). The
// Registry maps every declared Kind to its Metadata: the geometry
// category its payloads must carry, a display name, the display layer
// and whether the kind holds a single instance or a list of them.
//
// A Registry is created once from a literal table and never changes
// afterwards, so it can be shared by any number of goroutines.
package blocks
