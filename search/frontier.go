package search

import "container/heap"

type entry struct {
	step     int
	priority float64
	seq      uint64
}

// frontier is a min-heap on priority. Equal priorities pop in push order.
type frontier struct {
	entries []entry
	seq     uint64
}

func (f *frontier) Len() int { return len(f.entries) }

func (f *frontier) Less(i, j int) bool {
	if f.entries[i].priority == f.entries[j].priority {
		return f.entries[i].seq < f.entries[j].seq
	}
	return f.entries[i].priority < f.entries[j].priority
}

func (f *frontier) Swap(i, j int) { f.entries[i], f.entries[j] = f.entries[j], f.entries[i] }

func (f *frontier) Push(x any) { f.entries = append(f.entries, x.(entry)) }

func (f *frontier) Pop() any {
	n := len(f.entries) - 1
	e := f.entries[n]
	f.entries = f.entries[:n]
	return e
}

func (f *frontier) push(step int, priority float64) {
	heap.Push(f, entry{step: step, priority: priority, seq: f.seq})
	f.seq++
}

func (f *frontier) pop() int { return heap.Pop(f).(entry).step }
