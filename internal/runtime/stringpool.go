package runtime

import "github.com/pkg/errors"

// Resource bounds on the interned string pool.
const (
	MaxStringPoolEntries = 256
	MaxStringBytes       = 1024
)

// ErrStringPoolFull is returned when interning would exceed the pool's
// fixed capacity.
var ErrStringPoolFull = errors.New("string pool exhausted")

// ErrStringTooLong is returned when a string (or the result of a
// StringBuilder append) would exceed the per-entry byte budget.
var ErrStringTooLong = errors.New("string exceeds maximum length")

// StringPool is the VM-wide interning table used by ldc of a StringRef
// constant and by the StringBuilder/Scanner host shims. Entries are
// mutable in place so StringBuilder.append can grow a buffer without
// allocating a new pool slot per call.
type StringPool struct {
	entries []*[]byte
	index   map[string]int
}

// NewStringPool returns an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{
		entries: make([]*[]byte, 0, MaxStringPoolEntries),
		index:   make(map[string]int),
	}
}

// Intern returns a reference to s, reusing an existing entry with
// identical content instead of allocating a new slot. Refs returned by
// Intern must never be passed to Append — a deduped entry may be shared
// by several logically distinct callers, so mutating it in place would
// corrupt all of them. Use NewMutable for a ref that will be appended to.
func (p *StringPool) Intern(s string) (*StringRef, error) {
	if len(s) > MaxStringBytes {
		return nil, errors.Wrapf(ErrStringTooLong, "%d bytes", len(s))
	}
	if idx, ok := p.index[s]; ok {
		return &StringRef{Pool: p, Index: idx}, nil
	}
	if len(p.entries) >= MaxStringPoolEntries {
		return nil, ErrStringPoolFull
	}
	buf := []byte(s)
	p.entries = append(p.entries, &buf)
	idx := len(p.entries) - 1
	p.index[s] = idx
	return &StringRef{Pool: p, Index: idx}, nil
}

// NewMutable always allocates a fresh pool slot for s, even if an
// identical string is already interned. Used for StringBuilder instances,
// which need independent, appendable storage per object rather than a
// shared, deduplicated entry.
func (p *StringPool) NewMutable(s string) (*StringRef, error) {
	if len(p.entries) >= MaxStringPoolEntries {
		return nil, ErrStringPoolFull
	}
	if len(s) > MaxStringBytes {
		return nil, errors.Wrapf(ErrStringTooLong, "%d bytes", len(s))
	}
	buf := []byte(s)
	p.entries = append(p.entries, &buf)
	return &StringRef{Pool: p, Index: len(p.entries) - 1}, nil
}

// Get returns the current contents of ref.
func (ref *StringRef) Get() string {
	if ref == nil {
		return ""
	}
	return string(*ref.Pool.entries[ref.Index])
}

// Append mutates ref's buffer in place, growing it by suffix. Used by
// StringBuilder.append shims.
func (ref *StringRef) Append(suffix string) error {
	buf := ref.Pool.entries[ref.Index]
	next := append(*buf, suffix...)
	if len(next) > MaxStringBytes {
		return errors.Wrapf(ErrStringTooLong, "%d bytes after append", len(next))
	}
	*buf = next
	return nil
}
