package picklejar

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/builtin"
	"github.com/discochess/picklejar/internal/pickler"
	"github.com/discochess/picklejar/internal/stats"
)

type record struct {
	Name   string
	Count  int
	Tags   []string
	Scores map[string]float64
}

func objects() map[string]any {
	return map[string]any{
		"struct": record{
			Name:   "queen",
			Count:  9,
			Tags:   []string{"major", "piece"},
			Scores: map[string]float64{"mg": 2538, "eg": 2682},
		},
		"map":    map[string]int{"a": 1, "b": 2},
		"slice":  []string{"e4", "e5", "Nf3"},
		"string": "1. e4 e5 2. Nf3 Nc6",
	}
}

func newJar(t *testing.T, opts ...Option) *Jar {
	t.Helper()
	j, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return j
}

func available(entries []BackendInfo) []string {
	var names []string
	for _, e := range entries {
		if e.Available {
			names = append(names, e.Name)
		}
	}
	return names
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNew_Defaults(t *testing.T) {
	j := newJar(t)

	if got := len(j.Compressions()); got != len(builtin.Backends()) {
		t.Errorf("Compressions() len = %d, want %d", got, len(builtin.Backends()))
	}
	if got := len(j.Picklers()); got != len(pickler.Backends()) {
		t.Errorf("Picklers() len = %d, want %d", got, len(pickler.Backends()))
	}

	f, err := j.Resolve(Path("data.gz"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Formats{Compression: builtin.Gzip, Pickler: DefaultPickler, Extension: "gz", Inferred: true, Path: "data.gz"}
	if f != want {
		t.Errorf("Resolve() = %+v, want %+v", f, want)
	}
}

func TestNew_InvalidDefaults(t *testing.T) {
	if _, err := New(WithDefaultPickler("dill")); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(dill) error = %v, want ErrUnknownBackend", err)
	}
	if _, err := New(WithDefaultCompression("gzip2")); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(gzip2) error = %v, want ErrUnknownBackend", err)
	}
	if _, err := New(WithDefaultCompression(CompressionNone)); err != nil {
		t.Errorf("New(none) error = %v", err)
	}
}

func TestJar_RoundTrip(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()

	picklers := []string{pickler.Gob, pickler.Msgpack, pickler.JSON, pickler.YAML, pickler.CBOR}
	for _, comp := range available(j.Compressions()) {
		for _, pname := range picklers {
			if ok, _ := j.PicklerRegistry().Available(pname); !ok {
				continue
			}
			for oname, obj := range objects() {
				t.Run(comp+"/"+pname+"/"+oname, func(t *testing.T) {
					base := filepath.Join(dir, comp+"-"+pname+"-"+oname)
					if err := j.Dump(obj, Path(base), WithCompression(comp), WithPickler(pname)); err != nil {
						t.Fatalf("Dump() error = %v", err)
					}

					f, err := j.Resolve(Path(base), WithCompression(comp))
					if err != nil {
						t.Fatalf("Resolve() error = %v", err)
					}
					written := base + "." + f.Extension
					if f.Path != written {
						t.Errorf("Resolve().Path = %q, want %q", f.Path, written)
					}
					if !exists(written) {
						t.Fatalf("expected %s to exist", written)
					}

					// Load back with the compression inferred from the extension.
					out := reflect.New(reflect.TypeOf(obj))
					if err := j.Load(Path(written), out.Interface(), WithPickler(pname)); err != nil {
						t.Fatalf("Load() error = %v", err)
					}
					if diff := cmp.Diff(obj, out.Elem().Interface()); diff != "" {
						t.Errorf("round trip mismatch (-want +got):\n%s", diff)
					}
				})
			}
		}
	}
}

func TestJar_BytesRoundTrip(t *testing.T) {
	j := newJar(t)
	in := objects()["struct"].(record)

	for _, comp := range available(j.Compressions()) {
		data, err := j.DumpBytes(in, WithCompression(comp))
		if err != nil {
			t.Fatalf("DumpBytes(%s) error = %v", comp, err)
		}
		var out record
		if err := j.LoadBytes(data, &out, WithCompression(comp)); err != nil {
			t.Fatalf("LoadBytes(%s) error = %v", comp, err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", comp, diff)
		}
	}
}

func TestJar_DumpBytesNeedsCompression(t *testing.T) {
	j := newJar(t)
	if _, err := j.DumpBytes("x"); !errors.Is(err, ErrInference) {
		t.Errorf("DumpBytes() error = %v, want ErrInference", err)
	}
}

func TestJar_Inference(t *testing.T) {
	j := newJar(t)

	tests := []struct {
		path string
		want string
	}{
		{"data.gz", builtin.Gzip},
		{"data.GZ", builtin.Gzip},
		{"data.pkl", builtin.None},
		{"data.pickle", builtin.None},
		{"data.bz", builtin.Bz2},
		{"archive.tar.xz", builtin.Lzma},
		{"data.zip", builtin.Zipfile},
		{"data.zst", builtin.Zstd},
	}
	for _, tt := range tests {
		f, err := j.Resolve(Path(tt.path))
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", tt.path, err)
			continue
		}
		if f.Compression != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, f.Compression, tt.want)
		}
	}

	for _, path := range []string{"data", "data.", ".gz", "data.tar", "dir.gz/data"} {
		if _, err := j.Resolve(Path(path)); !errors.Is(err, ErrInference) {
			t.Errorf("Resolve(%q) error = %v, want ErrInference", path, err)
		}
	}
	if _, err := j.Resolve(Stream(&bytes.Buffer{})); !errors.Is(err, ErrInference) {
		t.Errorf("Resolve(stream) error = %v, want ErrInference", err)
	}
}

func TestJar_UnknownBackends(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	for _, name := range []string{"gzip2", "tar", "zip"} {
		err := j.Dump("x", Path(path), WithCompression(name))
		if !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("Dump(compression %q) error = %v, want ErrUnknownBackend", name, err)
		}
	}
	for _, name := range []string{"dill", "marshal", "cloudpickle"} {
		err := j.Dump("x", Path(path), WithPickler(name), WithCompression(CompressionNone))
		if !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("Dump(pickler %q) error = %v, want ErrUnknownBackend", name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed resolution created %d files", len(entries))
	}
}

func TestJar_DisabledBackend(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()

	if err := j.CompressionRegistry().SetAvailable(builtin.Lz4, false); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "data.lz4")
	if err := j.Dump("x", Path(path)); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Dump(inferred lz4) error = %v, want ErrBackendUnavailable", err)
	}
	if err := j.Dump("x", Path(path), WithCompression(builtin.Lz4)); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Dump(lz4) error = %v, want ErrBackendUnavailable", err)
	}
	if exists(path) {
		t.Error("disabled backend created a file")
	}

	if err := j.PicklerRegistry().SetAvailable(pickler.Msgpack, false); err != nil {
		t.Fatal(err)
	}
	err := j.Dump("x", Path(filepath.Join(dir, "data.gz")), WithPickler(pickler.Msgpack))
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Dump(msgpack) error = %v, want ErrBackendUnavailable", err)
	}
	if exists(filepath.Join(dir, "data.gz")) {
		t.Error("disabled pickler created a file")
	}

	// Re-enabling takes effect on the next call.
	if err := j.CompressionRegistry().SetAvailable(builtin.Lz4, true); err != nil {
		t.Fatal(err)
	}
	if ok, _ := j.CompressionRegistry().Recheck(builtin.Lz4); ok {
		if err := j.Dump("x", Path(path)); err != nil {
			t.Errorf("Dump() after re-enable error = %v", err)
		}
	}
}

func TestJar_NoneAlwaysResolves(t *testing.T) {
	j := newJar(t, WithCompressionRegistry(compress.NewEmptyRegistry()))
	var buf bytes.Buffer
	if err := j.Dump("plain", Stream(&buf), WithCompression(CompressionNone), WithPickler(pickler.Raw)); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if buf.String() != "plain" {
		t.Errorf("stream = %q, want plain", buf.String())
	}
}

func TestJar_StreamModes(t *testing.T) {
	j := newJar(t)

	err := j.Dump("x", Stream(bytes.NewReader(nil)), WithCompression(builtin.Gzip))
	if !errors.Is(err, ErrMode) {
		t.Errorf("Dump(read-only stream) error = %v, want ErrMode", err)
	}

	var out string
	err = j.Load(Stream(io.Discard), &out, WithCompression(builtin.Gzip))
	if !errors.Is(err, ErrMode) {
		t.Errorf("Load(write-only stream) error = %v, want ErrMode", err)
	}
}

func TestJar_FileStreamModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("descriptor access modes are not inspected on windows")
	}
	j := newJar(t)
	path := filepath.Join(t.TempDir(), "data.gz")
	if err := j.Dump("payload", Path(path)); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	ro, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()
	if err := j.Dump("x", Stream(ro), WithCompression(builtin.Gzip)); !errors.Is(err, ErrMode) {
		t.Errorf("Dump(read-only file) error = %v, want ErrMode", err)
	}

	wo, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer wo.Close()
	var out string
	if err := j.Load(Stream(wo), &out, WithCompression(builtin.Gzip)); !errors.Is(err, ErrMode) {
		t.Errorf("Load(write-only file) error = %v, want ErrMode", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("file changed by rejected calls")
	}

	rw, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer rw.Close()
	if err := j.Load(Stream(rw), &out, WithCompression(builtin.Gzip)); err != nil {
		t.Fatalf("Load(read-write file) error = %v", err)
	}
	if out != "payload" {
		t.Errorf("Load() = %q, want payload", out)
	}
}

func TestJar_PathWithoutFileName(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()

	sep := string(filepath.Separator)
	for _, p := range []string{dir + sep, dir + sep + ".", dir + sep + "sub" + sep + ".."} {
		err := j.Dump("x", Path(p), WithCompression(builtin.Gzip))
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("Dump(%q) error = %v, want ErrInvalidTarget", p, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected dumps created %d entries", len(entries))
	}
}

func TestJar_UnhandledExtension(t *testing.T) {
	tests := []struct {
		policy   ExtensionPolicy
		wantErr  error
		wantWarn bool
	}{
		{ExtensionRaise, ErrInference, false},
		{ExtensionIgnore, nil, false},
		{ExtensionWarn, nil, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			j := newJar(t, WithLogger(zap.New(core)), WithUnhandledExtension(tt.policy))
			path := filepath.Join(t.TempDir(), "data.tar")

			err := j.Dump(record{Name: "rook", Count: 5}, Path(path))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Dump() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if exists(path) {
					t.Error("failed inference created the file")
				}
				return
			}

			f, err := j.Resolve(Path(path))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if f.Compression != CompressionNone || f.Path != path {
				t.Errorf("Resolve() = %+v, want none at %s", f, path)
			}

			var got record
			if err := j.Load(Path(path), &got, WithCompression(CompressionNone)); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Name != "rook" {
				t.Errorf("Load() = %+v", got)
			}

			warned := logs.FilterMessage("unhandled extension, using no compression").Len() > 0
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v", warned, tt.wantWarn)
			}

			// No extension at all is never covered by the policy.
			if _, err := j.Resolve(Path(filepath.Join(t.TempDir(), "data"))); !errors.Is(err, ErrInference) {
				t.Errorf("Resolve(data) error = %v, want ErrInference", err)
			}
		})
	}
}

func TestJar_UnhandledExtensionPerCall(t *testing.T) {
	j := newJar(t)
	if _, err := j.Resolve(Path("data.tar")); !errors.Is(err, ErrInference) {
		t.Fatalf("Resolve() error = %v, want ErrInference", err)
	}
	f, err := j.Resolve(Path("data.tar"), WithUnhandledExtension(ExtensionIgnore))
	if err != nil {
		t.Fatalf("Resolve(ignore) error = %v", err)
	}
	if f.Compression != CompressionNone || !f.Inferred {
		t.Errorf("Resolve(ignore) = %+v", f)
	}
	if _, err := j.Resolve(Path("data.tar"), WithUnhandledExtension("loud")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Resolve(loud) error = %v, want ErrConfiguration", err)
	}
}

func TestParseExtensionPolicy(t *testing.T) {
	for in, want := range map[string]ExtensionPolicy{"raise": ExtensionRaise, " Warn ": ExtensionWarn, "IGNORE": ExtensionIgnore} {
		got, err := ParseExtensionPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseExtensionPolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseExtensionPolicy("loud"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParseExtensionPolicy(loud) error = %v, want ErrConfiguration", err)
	}
	if _, err := New(WithUnhandledExtension("")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("New(empty policy) error = %v, want ErrConfiguration", err)
	}
}

func TestJar_ZipNeedsRandomAccess(t *testing.T) {
	j := newJar(t)
	data, err := j.DumpBytes("member", WithCompression(builtin.Zipfile))
	if err != nil {
		t.Fatalf("DumpBytes() error = %v", err)
	}

	var out string
	nonSeekable := io.MultiReader(bytes.NewReader(data))
	err = j.Load(Stream(nonSeekable), &out, WithCompression(builtin.Zipfile))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("Load(non-seekable) error = %v, want ErrUnsupportedMode", err)
	}

	if err := j.Load(Stream(bytes.NewReader(data)), &out, WithCompression(builtin.Zipfile)); err != nil {
		t.Fatalf("Load(seekable) error = %v", err)
	}
	if out != "member" {
		t.Errorf("Load() = %q, want member", out)
	}
}

func TestJar_ZipArchiveName(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "games.zip")

	if err := j.Dump("x", Path(path), WithArchiveName("inner.gob")); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	var out string
	if err := j.Load(Path(path), &out, WithArchiveName("inner.gob")); err != nil {
		t.Fatalf("Load(named) error = %v", err)
	}
	if err := j.Load(Path(path), &out, WithArchiveName("missing")); err == nil {
		t.Error("Load(missing member) expected error")
	}
	if err := j.Load(Path(path), &out); err != nil || out != "x" {
		t.Errorf("Load(first member) = %q, %v", out, err)
	}
}

type trackedBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *trackedBuffer) Close() error {
	b.closed = true
	return nil
}

func TestJar_BorrowedStreamStaysOpen(t *testing.T) {
	j := newJar(t)
	buf := &trackedBuffer{}

	if err := j.Dump([]int{1, 2, 3}, Stream(buf), WithCompression(builtin.Gzip)); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if buf.closed {
		t.Fatal("Dump() closed a borrowed stream")
	}

	var out []int
	if err := j.Load(Stream(buf), &out, WithCompression(builtin.Gzip)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if buf.closed {
		t.Fatal("Load() closed a borrowed stream")
	}

	// Failure paths leave it open too.
	if err := j.Dump(make(chan int), Stream(buf), WithCompression(builtin.Gzip)); err == nil {
		t.Fatal("Dump(chan) expected error")
	}
	if buf.closed {
		t.Error("failed Dump() closed a borrowed stream")
	}
}

var errFlush = errors.New("flush failed")

// flakyCodec passes bytes through and fails when the writer is closed.
type flakyCodec struct{}

func (flakyCodec) Reader(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil }

func (flakyCodec) Writer(w io.Writer) (io.WriteCloser, error) { return flakyWriter{w}, nil }

type flakyWriter struct{ io.Writer }

func (flakyWriter) Close() error { return errFlush }

func flakyRegistry(t *testing.T) *compress.Registry {
	t.Helper()
	r := builtin.NewRegistry()
	err := r.Register(&compress.Backend{
		Name: "flaky",
		Exts: []string{"flaky"},
		New: func(compress.Options) (compress.Compressor, error) {
			return flakyCodec{}, nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func TestJar_CloseErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	j := newJar(t,
		WithCompressionRegistry(flakyRegistry(t)),
		WithLogger(zap.New(core)),
	)
	dir := t.TempDir()

	// Encoding succeeds, so the close error is the call's error.
	err := j.Dump("x", Path(filepath.Join(dir, "ok.flaky")))
	if !errors.Is(err, errFlush) {
		t.Fatalf("Dump() error = %v, want errFlush", err)
	}
	if got := Suppressed(err); len(got) != 0 {
		t.Errorf("Suppressed() = %v, want none", got)
	}

	// Encoding fails first; the close error is suppressed but retrievable.
	err = j.Dump(make(chan int), Path(filepath.Join(dir, "bad.flaky")))
	if err == nil || errors.Is(err, errFlush) {
		t.Fatalf("Dump() error = %v, want the encode error", err)
	}
	suppressed := Suppressed(err)
	if len(suppressed) != 1 || !errors.Is(suppressed[0], errFlush) {
		t.Errorf("Suppressed() = %v, want [errFlush]", suppressed)
	}
	if logs.FilterMessage("suppressed error while closing").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}

	// The file was released: it can be removed and recreated.
	if err := os.Remove(filepath.Join(dir, "bad.flaky")); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
}

func TestSuppressed_PlainError(t *testing.T) {
	if got := Suppressed(errors.New("plain")); got != nil {
		t.Errorf("Suppressed() = %v, want nil", got)
	}
	if got := Suppressed(nil); got != nil {
		t.Errorf("Suppressed(nil) = %v, want nil", got)
	}
}

func TestJar_SetDefaultExtension(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()
	at := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name  string
		path  string
		opts  []CallOption
		wrote string
	}{
		{"appends canonical", "a", []CallOption{WithCompression(builtin.Gzip)}, "a.gz"},
		{"keeps matching", "b.gz", []CallOption{WithCompression(builtin.Gzip)}, "b.gz"},
		{"never replaces", "c.pkl", []CallOption{WithCompression(builtin.Gzip)}, "c.pkl.gz"},
		{"other claimed extension", "d.bz2", []CallOption{WithCompression(builtin.Bz2)}, "d.bz2.bz"},
		{"none uses pkl", "e", []CallOption{WithCompression(CompressionNone)}, "e.pkl"},
		{"inferred untouched", "f.bz", nil, "f.bz"},
		{"disabled per call", "g", []CallOption{WithCompression(builtin.Gzip), WithDefaultExtension(false)}, "g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := j.Dump("x", Path(at(tt.path)), tt.opts...); err != nil {
				t.Fatalf("Dump() error = %v", err)
			}
			if !exists(at(tt.wrote)) {
				t.Errorf("expected %s to be written", tt.wrote)
			}
		})
	}

	off := newJar(t, WithSetDefaultExtension(false))
	if err := off.Dump("x", Path(at("h")), WithCompression(builtin.Gzip)); err != nil {
		t.Fatal(err)
	}
	if !exists(at("h")) || exists(at("h.gz")) {
		t.Error("jar-level WithSetDefaultExtension(false) was ignored")
	}
}

func TestJar_PathTargets(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()

	if err := j.Dump(42, PathOf(dir, "nested.gz")); err != nil {
		t.Fatalf("Dump(PathOf) error = %v", err)
	}
	var n int
	if err := j.Load(PathBytes([]byte(filepath.Join(dir, "nested.gz"))), &n); err != nil || n != 42 {
		t.Errorf("Load(PathBytes) = %d, %v", n, err)
	}

	if err := j.Dump(1, PathBytes([]byte{0xff, 0xfe})); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Dump(invalid UTF-8) error = %v, want ErrInvalidTarget", err)
	}
	if err := j.Dump(1, Path(""), WithCompression(CompressionNone)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Dump(empty path) error = %v, want ErrInvalidTarget", err)
	}
	if err := j.Load(Path(filepath.Join(dir, "missing.gz")), &n); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}

	tgt, err := TargetFrom(filepath.Join(dir, "from.gz"))
	if err != nil {
		t.Fatalf("TargetFrom() error = %v", err)
	}
	if err := j.Dump(7, tgt); err != nil {
		t.Errorf("Dump(TargetFrom) error = %v", err)
	}
}

func TestJar_InvalidLevelOpensNothing(t *testing.T) {
	j := newJar(t)
	path := filepath.Join(t.TempDir(), "out.gz")
	if err := j.Dump("x", Path(path), WithLevel(99)); err == nil {
		t.Fatal("Dump(level 99) expected error")
	}
	if exists(path) {
		t.Error("invalid level created a file")
	}
}

func TestJar_DecodeErrorWrapsPickler(t *testing.T) {
	j := newJar(t)
	path := filepath.Join(t.TempDir(), "text.pkl")
	if err := os.WriteFile(path, []byte("not gob"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out record
	if err := j.Load(Path(path), &out); err == nil {
		t.Error("Load() of garbage expected error")
	}
}

func TestJar_PythonPickle(t *testing.T) {
	j := newJar(t, WithDefaultPickler(pickler.Pickle))
	path := filepath.Join(t.TempDir(), "py.pkl.gz")

	in := map[any]any{"moves": []any{"e4", "c5"}, "ply": int64(2)}
	if err := j.Dump(in, Path(path)); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	var out any
	if err := j.Load(Path(path), &out); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(any(in), out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

type recordingCollector struct {
	mu       sync.Mutex
	counters map[string]int64
	observed int
}

func (c *recordingCollector) IncCounter(name string, delta int64, _ stats.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counters == nil {
		c.counters = map[string]int64{}
	}
	c.counters[name] += delta
}

func (c *recordingCollector) SetGauge(string, int64, stats.Labels) {}

func (c *recordingCollector) ObserveHistogram(string, float64, stats.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observed++
}

func TestJar_Stats(t *testing.T) {
	rec := &recordingCollector{}
	j := newJar(t, WithStats(rec))
	path := filepath.Join(t.TempDir(), "s.gz")

	if err := j.Dump("stats", Path(path)); err != nil {
		t.Fatal(err)
	}
	var out string
	if err := j.Load(Path(path), &out); err != nil {
		t.Fatal(err)
	}
	_ = j.Dump("x", Path("no-extension"))

	if rec.counters[stats.MetricCalls] != 3 {
		t.Errorf("calls = %d, want 3", rec.counters[stats.MetricCalls])
	}
	if rec.counters[stats.MetricFailures] != 1 {
		t.Errorf("failures = %d, want 1", rec.counters[stats.MetricFailures])
	}
	if rec.counters[stats.MetricBytes] == 0 {
		t.Error("no bytes counted")
	}
	if rec.observed != 3 {
		t.Errorf("histogram observations = %d, want 3", rec.observed)
	}
}

func TestJar_ConcurrentCalls(t *testing.T) {
	j := newJar(t)
	dir := t.TempDir()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join(dir, string(rune('a'+i))+".zst")
			if err := j.Dump(i, Path(path)); err != nil {
				errs <- err
				return
			}
			var n int
			if err := j.Load(Path(path), &n); err != nil {
				errs <- err
				return
			}
			if n != i {
				errs <- errors.New("value mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
