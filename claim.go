package gamepads

import (
	"reflect"
	"sync"
)

type sourceKey string

// claims holds every source currently owned by an AsyncState. Two pollers
// reading the same device would each see a subset of its events.
var claims = struct {
	sync.Mutex
	owned map[any]struct{}
}{owned: make(map[any]struct{})}

// claim registers src as owned, returning the function that releases it.
// Sources that are neither identified nor comparable can't be tracked and
// are always granted.
func claim(src Source) (release func(), err error) {
	key, ok := claimKey(src)
	if !ok {
		return func() {}, nil
	}

	claims.Lock()
	defer claims.Unlock()
	if _, exists := claims.owned[key]; exists {
		return nil, ErrSourceInUse
	}
	claims.owned[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			claims.Lock()
			delete(claims.owned, key)
			claims.Unlock()
		})
	}, nil
}

func claimKey(src Source) (any, bool) {
	if v, ok := src.(Identifier); ok {
		if id := v.SourceID(); id != `` {
			return sourceKey(id), true
		}
	}
	if !reflect.TypeOf(src).Comparable() {
		return nil, false
	}
	return src, true
}
