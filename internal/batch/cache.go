package batch

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"rxport/internal/convert"
	"rxport/internal/diag"
	"rxport/internal/flags"
	"rxport/internal/rewrite"
	"rxport/internal/source"
	"rxport/internal/version"
)

// Current schema version - increment when payload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest identifies one conversion: input, flags, options and the tool
// version that produced it.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Key hashes everything a conversion result depends on. Trace and timing
// options are excluded since they do not change the result.
func Key(pattern string, fs flags.Set, opts convert.Options) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	h.Write(buf[:2])
	writeField(h, version.Version)
	if chain, err := rewrite.Default(); err == nil {
		for _, r := range chain.Rules() {
			writeField(h, r.Name)
		}
	}
	writeField(h, pattern)
	h.Write([]byte{byte(fs), boolByte(opts.NormalizeNFC), boolByte(opts.HoistInlineFlags)})
	binary.LittleEndian.PutUint64(buf[:], uint64(max(opts.MaxLength, 0)))
	h.Write(buf[:])
	var d Digest
	h.Sum(d[:0])
	return d
}

func writeField(h io.Writer, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DiskCache stores conversion results on disk, one msgpack file per Digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the on-disk form of a convert.Result. Trace steps are not
// stored.
type DiskPayload struct {
	Schema      uint16
	Literal     string
	Pattern     string
	Flags       uint8
	Diagnostics []DiskDiagnostic
}

// DiskDiagnostic is a diagnostic without its in-memory references.
type DiskDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []DiskNote
	Source   string
}

type DiskNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiskCache initializes a disk cache at the standard location for app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes a result to the disk cache.
func (c *DiskCache) Put(key Digest, res *convert.Result) (err error) {
	if c == nil || res == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("failed to remove temp file: %w", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(resultToPayload(res)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a result from the disk cache. A missing entry or one written
// under another schema is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*convert.Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	res := payloadToResult(&payload)
	if res == nil {
		return nil, false, nil
	}
	return res, true, nil
}

// DropAll removes every cached result.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}

func resultToPayload(res *convert.Result) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Literal:     res.Literal,
		Pattern:     res.Pattern,
		Flags:       uint8(res.Flags),
		Diagnostics: make([]DiskDiagnostic, len(res.Diagnostics)),
	}
	for i, d := range res.Diagnostics {
		dd := DiskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Source:   d.Source,
		}
		for _, n := range d.Notes {
			dd.Notes = append(dd.Notes, DiskNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diagnostics[i] = dd
	}
	return payload
}

func payloadToResult(payload *DiskPayload) *convert.Result {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	res := &convert.Result{
		Literal: payload.Literal,
		Pattern: payload.Pattern,
		Flags:   flags.Set(payload.Flags),
	}
	if len(payload.Diagnostics) > 0 {
		res.Diagnostics = make([]diag.Diagnostic, len(payload.Diagnostics))
	}
	for i, dd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(dd.Severity),
			Code:     diag.Code(dd.Code),
			Message:  dd.Message,
			Primary:  source.Span{Start: dd.Start, End: dd.End},
			Source:   dd.Source,
		}
		for _, n := range dd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		res.Diagnostics[i] = d
	}
	return res
}
