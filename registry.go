package medrec

import (
	"iter"
	"sync"
)

// Registry keeps patient records in two indexes: a NameIndex that owns the
// records and an AgeIndex that references them for range queries. Every
// mutation updates both indexes inside one critical section, so a reader never
// sees a record in one index but not in the other.
//
// Records handed out by the registry are copies, mutate them through Update.
type Registry struct {
	lock   sync.RWMutex
	byName *NameIndex
	byAge  *AgeIndex

	opt *options
}

// Stats describes the shape of both indexes.
type Stats struct {
	Records    int
	Ages       int // distinct ages
	NameHeight int
	AgeHeight  int
}

// New creates an empty registry.
func New(options ...Option) *Registry {
	opt := defaultOptions()
	for _, o := range options {
		o.apply(opt)
	}

	return &Registry{
		byName: NewNameIndex(),
		byAge:  NewAgeIndex(),
		opt:    opt,
	}
}

// Add validates rec and stores a copy of it. It reports false without error
// when a record with the same name already exists, the stored record is left
// unchanged in that case.
func (r *Registry) Add(rec *Record) (bool, error) {
	if err := rec.Validate(r.opt.limits); err != nil {
		return false, err
	}

	rec = rec.Clone()

	r.lock.Lock()
	defer r.lock.Unlock()

	return insertIndexed(r.byName, r.byAge, rec), nil
}

func insertIndexed(byName *NameIndex, byAge *AgeIndex, rec *Record) bool {
	if !byName.Insert(rec) {
		return false
	}

	byAge.Insert(rec)
	return true
}

// Get returns a copy of the record with the given name.
func (r *Registry) Get(name string) (Record, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rec, ok := r.byName.Find(name)
	if !ok {
		return Record{}, false
	}

	return *rec, true
}

// Update replaces the free text fields of the named record. Name and age never
// change, so both indexes stay in place.
func (r *Registry) Update(name, history, diagnosis, prescription string) (bool, error) {
	if err := validateText(r.opt.limits.Text, history, diagnosis, prescription); err != nil {
		return false, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.byName.Find(name)
	if !ok {
		return false, nil
	}

	rec.MedicalHistory = history
	rec.Diagnosis = diagnosis
	rec.Prescription = prescription
	return true, nil
}

// Delete removes the named record from both indexes.
func (r *Registry) Delete(name string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.byName.Delete(name)
	if !ok {
		return false
	}

	if !r.byAge.Remove(rec) {
		r.opt.logger.Log("record %s missing from age index", rec.Name)
	}

	return true
}

// Records returns every record in ascending name order. The sequence replays a
// snapshot taken when it is ranged over, the registry may change meanwhile.
func (r *Registry) Records() iter.Seq[Record] {
	return r.snapshot(func() iter.Seq[*Record] { return r.byName.Ascend() })
}

// RangeByAge returns every record whose age lies in [minAge, maxAge], grouped
// by ascending age and latest first inside one age.
func (r *Registry) RangeByAge(minAge, maxAge int) iter.Seq[Record] {
	return r.snapshot(func() iter.Seq[*Record] { return r.byAge.Range(minAge, maxAge) })
}

func (r *Registry) snapshot(source func() iter.Seq[*Record]) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		r.lock.RLock()
		records := make([]Record, 0, r.byName.Len())
		for rec := range source() {
			records = append(records, *rec)
		}
		r.lock.RUnlock()

		for _, rec := range records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.byName.Len()
}

func (r *Registry) Stats() Stats {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return Stats{
		Records:    r.byName.Len(),
		Ages:       r.byAge.Len(),
		NameHeight: r.byName.Height(),
		AgeHeight:  r.byAge.Height(),
	}
}

// Reset drops every record.
func (r *Registry) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.byName, r.byAge = NewNameIndex(), NewAgeIndex()
}

// Save writes all records into the text file at path on the configured file
// system.
func (r *Registry) Save(path string) error {
	return r.SaveTo(r.textFile(path))
}

// Load replaces the registry content with the records of the text file at
// path. See LoadFrom.
func (r *Registry) Load(path string) (LoadResult, error) {
	return r.LoadFrom(r.textFile(path))
}

func (r *Registry) textFile(path string) *TextFile {
	return NewTextFile(r.opt.fs, path).WithLogger(r.opt.logger)
}

// SaveTo writes all records, in ascending name order, into p.
func (r *Registry) SaveTo(p Persister) error {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return p.Save(r.byName.Ascend())
}

// LoadFrom builds both indexes from p and swaps them in once p has been read
// completely. Records that fail validation are skipped like malformed ones,
// later records with an already loaded name are dropped. On error the registry
// is left untouched.
func (r *Registry) LoadFrom(p Persister) (LoadResult, error) {
	var (
		result = LoadResult{}
		byName = NewNameIndex()
		byAge  = NewAgeIndex()
	)

	skipped, err := p.Load(func(rec *Record) {
		if verr := rec.Validate(r.opt.limits); verr != nil {
			r.opt.logger.Log("load skipped %s: %v", rec.Name, verr)
			result.Skipped++
			return
		}

		if !insertIndexed(byName, byAge, rec) {
			result.Duplicates++
		}
	})
	if err != nil {
		return LoadResult{}, err
	}

	result.Skipped += skipped
	result.Loaded = byName.Len()

	r.lock.Lock()
	r.byName, r.byAge = byName, byAge
	r.lock.Unlock()

	return result, nil
}

// Names returns the sorted names of all records.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for rec := range r.Records() {
		names = append(names, rec.Name)
	}

	return names
}
