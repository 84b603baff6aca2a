package memory

import (
	"sort"
	"sync"
)

type row[T any] struct {
	id string
	v  T
}

// rowset is what the repositories read and write: either the live tables or
// a transaction overlay on top of them.
type rowset[T any] interface {
	get(id string) (T, bool)
	put(id string, v T)
	del(id string) bool
	// snapshot returns rows in insertion order.
	snapshot() []row[T]
	// putUnless stores v under id unless an existing row clashes with it. The
	// check and the write are one step.
	putUnless(id string, v T, clash func(r row[T]) bool) bool
}

type entry[T any] struct {
	v   T
	seq uint64
}

// table is a keyed collection that remembers insertion order. Updating a key
// keeps its original position.
type table[T any] struct {
	rows map[string]entry[T]
	seq  uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]entry[T]{}}
}

func (t *table[T]) upsert(id string, v T) {
	if e, ok := t.rows[id]; ok {
		t.rows[id] = entry[T]{v: v, seq: e.seq}
		return
	}
	t.seq++
	t.rows[id] = entry[T]{v: v, seq: t.seq}
}

// locked exposes a table guarded by the store mutex.
type locked[T any] struct {
	mu *sync.RWMutex
	t  *table[T]
}

func (l locked[T]) get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.t.rows[id]
	return e.v, ok
}

func (l locked[T]) put(id string, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t.upsert(id, v)
}

func (l locked[T]) del(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.t.rows[id]
	delete(l.t.rows, id)
	return ok
}

func (l locked[T]) putUnless(id string, v T, clash func(r row[T]) bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for rid, e := range l.t.rows {
		if clash(row[T]{id: rid, v: e.v}) {
			return false
		}
	}
	l.t.upsert(id, v)
	return true
}

func (l locked[T]) snapshot() []row[T] {
	l.mu.RLock()
	type seqRow struct {
		row[T]
		seq uint64
	}
	tmp := make([]seqRow, 0, len(l.t.rows))
	for id, e := range l.t.rows {
		tmp = append(tmp, seqRow{row: row[T]{id: id, v: e.v}, seq: e.seq})
	}
	l.mu.RUnlock()

	sort.Slice(tmp, func(i, j int) bool { return tmp[i].seq < tmp[j].seq })
	out := make([]row[T], len(tmp))
	for i := range tmp {
		out[i] = tmp[i].row
	}
	return out
}

// overlay buffers writes made inside a transaction.
type overlay[T any] struct {
	base  rowset[T]
	puts  map[string]T
	dels  map[string]bool
	order []string
}

func newOverlay[T any](base rowset[T]) *overlay[T] {
	return &overlay[T]{base: base, puts: map[string]T{}, dels: map[string]bool{}}
}

func (o *overlay[T]) get(id string) (T, bool) {
	if o.dels[id] {
		var zero T
		return zero, false
	}
	if v, ok := o.puts[id]; ok {
		return v, true
	}
	return o.base.get(id)
}

func (o *overlay[T]) put(id string, v T) {
	delete(o.dels, id)
	if _, ok := o.puts[id]; !ok {
		o.order = append(o.order, id)
	}
	o.puts[id] = v
}

func (o *overlay[T]) del(id string) bool {
	_, ok := o.get(id)
	delete(o.puts, id)
	o.dels[id] = true
	return ok
}

// putUnless needs no lock of its own: transactions are serialised by the store.
func (o *overlay[T]) putUnless(id string, v T, clash func(r row[T]) bool) bool {
	for _, r := range o.snapshot() {
		if clash(r) {
			return false
		}
	}
	o.put(id, v)
	return true
}

func (o *overlay[T]) snapshot() []row[T] {
	base := o.base.snapshot()
	seen := make(map[string]bool, len(base))
	out := make([]row[T], 0, len(base)+len(o.order))
	for _, r := range base {
		seen[r.id] = true
		if o.dels[r.id] {
			continue
		}
		if v, ok := o.puts[r.id]; ok {
			r.v = v
		}
		out = append(out, r)
	}
	for _, id := range o.order {
		if seen[id] {
			continue
		}
		if v, ok := o.puts[id]; ok {
			out = append(out, row[T]{id: id, v: v})
		}
	}
	return out
}

// applyTo writes the buffered changes into t. The caller holds the store lock.
func (o *overlay[T]) applyTo(t *table[T]) {
	for id := range o.dels {
		delete(t.rows, id)
	}
	for _, id := range o.order {
		if v, ok := o.puts[id]; ok {
			t.upsert(id, v)
		}
	}
}
