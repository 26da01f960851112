package reslib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/tobj"
	"github.com/mogaika/prism_converter/utils"
)

type countingLoader struct {
	calls map[string]int
	fail  map[string]bool
}

func (cl *countingLoader) load(basePath, key string) (*tobj.TextureObject, error) {
	cl.calls[key]++
	if cl.fail[key] {
		return nil, errors.Errorf("no such tobj %q", key)
	}
	return &tobj.TextureObject{Textures: []string{basePath + key}}, nil
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: make(map[string]int), fail: make(map[string]bool)}
}

func TestObtainCaches(t *testing.T) {
	cl := newCountingLoader()
	lib := NewLibrary(cl.load)

	first, err := lib.Obtain("/base", "/a.tobj")
	if err != nil {
		t.Fatal(err)
	}
	second, err := lib.Obtain("/other", "/a.tobj")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Same key returned different entries")
	}
	// key alone identifies entry, base path of first load wins
	if second.Textures[0] != "/base/a.tobj" {
		t.Errorf("Entry reloaded: %q", second.Textures)
	}
	if cl.calls["/a.tobj"] != 1 || lib.Len() != 1 {
		t.Errorf("Loader calls %d, entries %d", cl.calls["/a.tobj"], lib.Len())
	}

	if _, err := lib.Obtain("/base", "/b.tobj"); err != nil {
		t.Fatal(err)
	}
	if lib.Len() != 2 {
		t.Errorf("Entries: %d", lib.Len())
	}

	lib.Destroy()
	if lib.Len() != 0 {
		t.Errorf("Entries after Destroy: %d", lib.Len())
	}
	third, _ := lib.Obtain("/base", "/a.tobj")
	if third == first || cl.calls["/a.tobj"] != 2 {
		t.Errorf("Entry survived Destroy")
	}
}

func TestObtainFailureNotCached(t *testing.T) {
	cl := newCountingLoader()
	cl.fail["/broken.tobj"] = true
	var log bytes.Buffer
	lib := NewLibrary(cl.load)
	lib.Logger = utils.NewLogger(&log)

	for i := 0; i < 2; i++ {
		if to, err := lib.Obtain("/base", "/broken.tobj"); err == nil || to != nil {
			t.Errorf("Obtain of broken tobj: %v, %v", to, err)
		}
	}
	if cl.calls["/broken.tobj"] != 2 || lib.Len() != 0 {
		t.Errorf("Failure cached: calls %d, entries %d", cl.calls["/broken.tobj"], lib.Len())
	}
	if !strings.Contains(log.String(), "Unable to load: \"/broken.tobj\"!") {
		t.Errorf("Failure not logged: %q", log.String())
	}

	// recovers once file becomes loadable
	cl.fail["/broken.tobj"] = false
	if _, err := lib.Obtain("/base", "/broken.tobj"); err != nil || lib.Len() != 1 {
		t.Errorf("Obtain after fix: %v, entries %d", err, lib.Len())
	}
}

func TestDefaultLoader(t *testing.T) {
	lib := NewLibrary(nil)
	if _, err := lib.Obtain(t.TempDir(), "/missing.tobj"); err == nil {
		t.Errorf("Missing tobj obtained")
	}
	if lib.Len() != 0 {
		t.Errorf("Entries: %d", lib.Len())
	}
}
