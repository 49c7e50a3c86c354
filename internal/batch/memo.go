package batch

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"rxport/internal/convert"
)

// DefaultMemoSize bounds the in-memory memo when no size is configured.
const DefaultMemoSize = 1024

// Memo is a bounded in-memory cache of results shared between the jobs of
// one run. Cached results are shared; callers must not modify them.
type Memo struct {
	cache *lru.Cache[Digest, *convert.Result]
}

// NewMemo returns a memo holding up to size results; size <= 0 uses
// DefaultMemoSize.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[Digest, *convert.Result](size)
	if err != nil {
		return nil, err
	}
	return &Memo{cache: c}, nil
}

func (m *Memo) Get(key Digest) (*convert.Result, bool) {
	if m == nil {
		return nil, false
	}
	return m.cache.Get(key)
}

func (m *Memo) Add(key Digest, res *convert.Result) {
	if m == nil || res == nil {
		return
	}
	m.cache.Add(key, res)
}

func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	return m.cache.Len()
}
