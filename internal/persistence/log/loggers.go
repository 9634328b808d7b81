package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

// JSONLZstdWriter appends JSON lines to zstd segments named
// <prefix>-<seq>.jsonl.zst, starting a new segment every maxLines lines.
type JSONLZstdWriter struct {
	baseDir  string
	prefix   string
	maxLines int

	mu    sync.Mutex
	seg   int
	lines int
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string, maxLines int) *JSONLZstdWriter {
	if maxLines <= 0 {
		maxLines = 4096
	}
	return &JSONLZstdWriter{
		baseDir:  baseDir,
		prefix:   prefix,
		maxLines: maxLines,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil || w.lines >= w.maxLines {
		if err := w.rotateLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked() error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	w.seg++
	f, err := os.OpenFile(w.pathForSegment(w.seg), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.lines = 0
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForSegment(seg int) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%06d.jsonl.zst", w.prefix, seg))
}

// ReadJSONLZstd decodes every line of every segment under dir with the
// given prefix, in segment order.
func ReadJSONLZstd(dir, prefix string, each func(line []byte) error) error {
	paths, err := filepath.Glob(filepath.Join(dir, prefix+"-*.jsonl.zst"))
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := readSegment(p, each); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func readSegment(path string, each func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := each(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// FrameLogger writes one JSONL entry per captured stage frame
// (compressed). It is an inspect.Sink.
type FrameLogger struct{ w *JSONLZstdWriter }

func NewFrameLogger(runDir string) *FrameLogger {
	return &FrameLogger{w: NewJSONLZstdWriter(filepath.Join(runDir, "frames"), "frames", 0)}
}

func (l *FrameLogger) WriteFrame(f inspect.Frame) error { return l.w.Write(f.Message()) }
func (l *FrameLogger) Close() error                     { return l.w.Close() }

// ReadFrames loads every frame a FrameLogger wrote under runDir.
func ReadFrames(runDir string) ([]inspect.Frame, error) {
	var out []inspect.Frame
	err := ReadJSONLZstd(filepath.Join(runDir, "frames"), "frames", func(line []byte) error {
		var m observerproto.FrameMsg
		if err := json.Unmarshal(line, &m); err != nil {
			return err
		}
		f, err := inspect.FrameFromMessage(m)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}
