package dataset

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// value tags keep different kinds from hashing alike.
const (
	tagNull byte = iota
	tagText
	tagInt
	tagFloat
	tagBool
	tagDate
)

// RowKey hashes every value of row i. Equal rows share a key; distinct rows almost never do.
func (d *Dataset) RowKey(i int) uint64 {
	h := xxhash.New()
	var buf [9]byte
	for _, c := range d.cols {
		switch x := c.values[i].(type) {
		case nil:
			buf[0] = tagNull
			_, _ = h.Write(buf[:1])
		case string:
			buf[0] = tagText
			binary.LittleEndian.PutUint64(buf[1:], uint64(len(x)))
			_, _ = h.Write(buf[:])
			_, _ = h.WriteString(x)
		case int64:
			buf[0] = tagInt
			binary.LittleEndian.PutUint64(buf[1:], uint64(x))
			_, _ = h.Write(buf[:])
		case float64:
			if x == 0 {
				x = 0 // fold -0
			}
			buf[0] = tagFloat
			binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x))
			_, _ = h.Write(buf[:])
		case bool:
			buf[0] = tagBool
			buf[1] = 0
			if x {
				buf[1] = 1
			}
			_, _ = h.Write(buf[:2])
		case time.Time:
			buf[0] = tagDate
			binary.LittleEndian.PutUint64(buf[1:], uint64(x.UnixNano()))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// RowsEqual reports whether rows i and j hold equal values in every column.
func (d *Dataset) RowsEqual(i, j int) bool {
	for _, c := range d.cols {
		if !Equal(c.values[i], c.values[j]) {
			return false
		}
	}
	return true
}

// Duplicated marks every row that repeats an earlier row across all columns.
func (d *Dataset) Duplicated() []bool {
	mask := make([]bool, d.rows)
	seen := make(map[uint64][]int)
	for i := 0; i < d.rows; i++ {
		k := d.RowKey(i)
		for _, j := range seen[k] {
			if d.RowsEqual(i, j) {
				mask[i] = true
				break
			}
		}
		if !mask[i] {
			seen[k] = append(seen[k], i)
		}
	}
	return mask
}

// DuplicateCount is the number of rows Duplicated marks.
func (d *Dataset) DuplicateCount() int {
	n := 0
	for _, dup := range d.Duplicated() {
		if dup {
			n++
		}
	}
	return n
}
