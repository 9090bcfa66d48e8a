package search

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// RecordEntry is one line of a search archive.
type RecordEntry struct {
	Run          string   `json:"run"`
	Sequence     []string `json:"sequence"`
	Feasible     bool     `json:"feasible"`
	Error        string   `json:"error,omitempty"`
	Score        []int    `json:"score,omitempty"`
	Lair         string   `json:"lair,omitempty"`
	TotalGathers int      `json:"total_gathers"`
	WastedDamage int      `json:"wasted_damage"`
	Fear         int      `json:"fear"`
	Violations   int      `json:"violations"`
}

// Recorder appends RecordEntry values to a zstd-compressed JSONL file. It
// is safe for concurrent use.
type Recorder struct {
	run string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewRecorder creates path, truncating any previous archive.
func NewRecorder(path, run string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Recorder{run: run, f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one entry, stamped with the recorder's run id.
func (r *Recorder) Write(e RecordEntry) error {
	e.Run = r.run
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return errors.New("recorder closed")
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and closes the archive.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.w, r.enc, r.f = nil, nil, nil
	return err
}

// ReadRecords decodes every entry of an archive.
func ReadRecords(src io.Reader) ([]RecordEntry, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []RecordEntry
	d := json.NewDecoder(dec)
	for {
		var e RecordEntry
		if err := d.Decode(&e); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		out = append(out, e)
	}
}
