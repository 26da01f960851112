package reslib

import (
	"github.com/mogaika/prism_converter/tobj"
	"github.com/mogaika/prism_converter/utils"
)

type Loader func(basePath, key string) (*tobj.TextureObject, error)

// Library caches texture objects by key for whole conversion session.
// Not safe for concurrent use.
type Library struct {
	tobjs  map[string]*tobj.TextureObject
	loader Loader
	Logger *utils.Logger
}

// NewLibrary uses tobj.Load when loader is nil
func NewLibrary(loader Loader) *Library {
	if loader == nil {
		loader = tobj.Load
	}
	return &Library{
		tobjs:  make(map[string]*tobj.TextureObject),
		loader: loader,
	}
}

// Obtain returns cached texture object or loads it. Failed loads are not cached,
// so next Obtain with same key retries.
func (l *Library) Obtain(basePath, key string) (*tobj.TextureObject, error) {
	if t, ok := l.tobjs[key]; ok {
		return t, nil
	}

	t, err := l.loader(basePath, key)
	if err != nil {
		l.Logger.Printf("[reslib] Unable to load: %q! %v", key, err)
		return nil, err
	}
	l.tobjs[key] = t
	return t, nil
}

func (l *Library) Len() int {
	return len(l.tobjs)
}

// Destroy drops all entries, pointers returned before stay usable but are no longer shared
func (l *Library) Destroy() {
	l.tobjs = make(map[string]*tobj.TextureObject)
}
