package picklejar

import "github.com/discochess/picklejar/internal/target"

// Target is where a value is dumped to or loaded from: either a filesystem
// path, which the call opens and closes, or a caller-owned stream, which
// the call never closes.
type Target = target.Target

// Path returns a target for a filesystem path.
func Path(p string) Target { return target.Path(p) }

// PathBytes returns a target for a UTF-8 encoded path.
func PathBytes(p []byte) Target { return target.PathBytes(p) }

// PathOf returns a target for the path made by joining elem.
func PathOf(elem ...string) Target { return target.PathOf(elem...) }

// Stream returns a target for an open io.Reader and/or io.Writer.
func Stream(s any) Target { return target.Stream(s) }

// TargetFrom converts strings, byte slices, path segments, fmt.Stringers
// and streams into a Target.
func TargetFrom(v any) (Target, error) { return target.From(v) }
