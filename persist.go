package medrec

import "iter"

var (
	_ Persister = (*TextFile)(nil)
)

// Persister stores and restores a full snapshot of the registry records.
//
// Save receives the records in ascending name order and replaces whatever the
// destination held before. Load hands every well formed record to insert and
// returns the number of entries it had to skip. Both return an error matching
// ErrIO when the destination or source can not be used, in which case the
// registry state is left unchanged.
type Persister interface {
	Save(records iter.Seq[*Record]) error
	Load(insert func(*Record)) (skipped int, err error)
}

// LoadResult summarizes one load.
type LoadResult struct {
	Loaded     int // records now present in the registry
	Duplicates int // records dropped because their name was already loaded
	Skipped    int // malformed entries in the source
}
