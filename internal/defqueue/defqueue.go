// Package defqueue indexes decoded defects by checker class and normalized
// file name so that terse external references can be re-associated with the
// full records, each defect being handed out exactly once.
package defqueue

import (
	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/msgfilter"
)

// PathFilter normalizes a file name before it is used as part of a bucket
// key. The same filter is applied on insert and on lookup.
type PathFilter func(string) string

type bucketKey struct {
	checker  string
	fileName string
}

// Queue is a FIFO store of defects bucketed by (checker, filtered file name).
// A bucket is removed the moment its last entry is popped, so Empty is exact
// and can back the end-of-run integrity check.
type Queue struct {
	stor   map[bucketKey][]defect.Defect
	filter PathFilter
	size   int
}

// New returns an empty queue using the given path filter. A nil filter falls
// back to msgfilter.FilterPath.
func New(filter PathFilter) *Queue {
	if filter == nil {
		filter = msgfilter.FilterPath
	}
	return &Queue{
		stor:   make(map[bucketKey][]defect.Defect),
		filter: filter,
	}
}

// Insert files def under (def.Checker, filter(firstEvent.FileName)),
// appending to the bucket so that repeated defects at the same location keep
// their original report order. The first event decides the bucket even when
// another event is marked as the key one; external references carry the file
// the narrative starts in.
func (q *Queue) Insert(def defect.Defect) {
	key := bucketKey{
		checker:  def.Checker,
		fileName: q.filter(def.Events[0].FileName),
	}
	q.stor[key] = append(q.stor[key], def)
	q.size++
}

// Lookup pops the oldest defect filed under (checker, filter(fileName)).
// The second return value is false when no matching defect remains; a miss
// is not an error, the caller decides what it means.
func (q *Queue) Lookup(checker, fileName string) (defect.Defect, bool) {
	key := bucketKey{
		checker:  checker,
		fileName: q.filter(fileName),
	}
	bucket, ok := q.stor[key]
	if !ok {
		return defect.Defect{}, false
	}

	def := bucket[0]
	if len(bucket) == 1 {
		delete(q.stor, key)
	} else {
		q.stor[key] = bucket[1:]
	}
	q.size--

	return def, true
}

// Empty reports whether no defect remains in any bucket.
func (q *Queue) Empty() bool {
	return len(q.stor) == 0
}

// Len returns the number of defects currently stored.
func (q *Queue) Len() int {
	return q.size
}
