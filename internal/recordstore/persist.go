package recordstore

import (
	"os"

	"github.com/axiom-mind/memengine/internal/fsutil"
)

func readJSON(path string, v any) error  { return fsutil.ReadJSON(path, v) }
func writeJSONAtomic(path string, v any) error { return fsutil.WriteJSONAtomic(path, v) }
func isNotExist(err error) bool          { return os.IsNotExist(err) }
