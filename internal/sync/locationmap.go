package sync

// LocationMap resolves a source item's textual warehouse name to the cache's
// numeric location id. The table is configuration-driven; unmapped names are
// dropped with a warning, not an error.
type LocationMap map[string]int64

// Resolve returns the location id for a warehouse name.
func (m LocationMap) Resolve(name string) (int64, bool) {
	id, ok := m[name]
	return id, ok
}
