package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// maxRun bounds decoded runs so a corrupt frame cannot allocate unbounded
// memory.
const maxRun = 1 << 24

// EncodeRLE encodes a row-major grid of layer ids into base64(varint pairs).
// The pairs are (id, run_len) repeated; ids are zigzag varints because some
// intermediate stages carry negative or 32-bit payloads.
func EncodeRLE(ids []int) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		v := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == v && run < maxRun; j++ {
			run++
		}

		n := binary.PutVarint(tmp[:], int64(v))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func DecodeRLE(b64 string) ([]int, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []int
	for i := 0; i < len(raw); {
		v, n := binary.Varint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if run == 0 || run > maxRun {
			return nil, fmt.Errorf("bad run length %d", run)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, int(v))
		}
	}
	return out, nil
}

// Histogram counts cells per id.
func Histogram(ids []int) map[int]int {
	h := make(map[int]int)
	for _, v := range ids {
		h[v]++
	}
	return h
}
