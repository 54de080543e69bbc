// Package heightq is a bucket queue ordered by node height in the
// dependency graph, so draining it visits sources before dependents.
package heightq

import "github.com/delaneyj/finegrain/internal/arena"

const defaultBuckets = 64

type Queue struct {
	min     int
	max     int
	size    int
	buckets [][]arena.Index // [height]entries
}

func New() *Queue {
	return &Queue{
		min:     0,
		max:     -1,
		buckets: make([][]arena.Index, defaultBuckets),
	}
}

// Push does not deduplicate; callers track membership on the node.
func (q *Queue) Push(id arena.Index, height int) {
	if height < 0 {
		height = 0
	}
	for height >= len(q.buckets) {
		q.buckets = append(q.buckets, make([][]arena.Index, len(q.buckets))...)
	}

	q.buckets[height] = append(q.buckets[height], id)
	q.size++

	if q.size == 1 || height < q.min {
		q.min = height
	}
	if height > q.max {
		q.max = height
	}
}

func (q *Queue) Len() int { return q.size }

// Drain appends every entry to dst in ascending height, insertion order
// within a height, and leaves the queue empty.
func (q *Queue) Drain(dst []arena.Index) []arena.Index {
	if q.size == 0 {
		return dst
	}

	for h := q.min; h <= q.max; h++ {
		b := q.buckets[h]
		if len(b) == 0 {
			continue
		}
		dst = append(dst, b...)
		clear(b)
		q.buckets[h] = b[:0]
	}

	q.min, q.max, q.size = 0, -1, 0
	return dst
}
