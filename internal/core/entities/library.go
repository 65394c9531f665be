package entities

import "sync"

// Library is the in-memory page index: PageKey -> Page, plus a secondary
// URI -> PageKey index. No two pages may share a URI — a collision is a
// build error (spec §3 "Library", §9 "Open questions").
type Library struct {
	mu      sync.RWMutex
	byKey   map[PageKey]Page
	byURI   map[string]PageKey
	nextKey PageKey
	order   []PageKey // insertion order, for deterministic iteration
}

func NewLibrary() *Library {
	return &Library{
		byKey: make(map[PageKey]Page),
		byURI: make(map[string]PageKey),
	}
}

// Insert assigns a fresh key, stores the page with the key embedded, and
// indexes it by URI. Fails with ErrKindLibraryCollision if the URI is
// already taken.
func (l *Library) Insert(p Page) (PageKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byURI[p.URI]; exists {
		return 0, NewError(ErrKindLibraryCollision, "duplicate page URI", nil).
			WithContext("uri", p.URI).WithContext("path", p.Source.Abs())
	}

	l.nextKey++
	key := l.nextKey
	p.Key = key
	l.byKey[key] = p
	l.byURI[p.URI] = key
	l.order = append(l.order, key)
	return key, nil
}

// GetByKey returns the page for key, and whether it was found.
func (l *Library) GetByKey(key PageKey) (Page, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.byKey[key]
	return p, ok
}

// GetByURI returns the page for uri, and whether it was found.
func (l *Library) GetByURI(uri string) (Page, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	key, ok := l.byURI[uri]
	if !ok {
		return Page{}, false
	}
	return l.byKey[key], true
}

// Iter returns every page in stable insertion order.
func (l *Library) Iter() []Page {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pages := make([]Page, 0, len(l.order))
	for _, key := range l.order {
		if p, ok := l.byKey[key]; ok {
			pages = append(pages, p)
		}
	}
	return pages
}

// RemoveBySourcePath removes the page whose source path equals path,
// dropping both indices. Reports whether a page was removed.
func (l *Library) RemoveBySourcePath(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, p := range l.byKey {
		if p.Source.Abs() == path {
			delete(l.byKey, key)
			delete(l.byURI, p.URI)
			for i, k := range l.order {
				if k == key {
					l.order = append(l.order[:i], l.order[i+1:]...)
					break
				}
			}
			return true
		}
	}
	return false
}

// Len returns the number of pages currently indexed.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byKey)
}
