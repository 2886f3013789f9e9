// Binary encoding for keyword set blobs.
//
// Keyword lists use a compact length-prefixed format; set metadata is small
// and uses gob.
//
// Keyword list format (little-endian):
//
//	count:  uint32
//	per keyword:
//	  len:  uint32
//	  text: [len]byte
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"
)

// setMeta is the gob-encoded companion of a keyword list.
type setMeta struct {
	Count     int
	UpdatedAt time.Time
}

// encodeKeywords encodes keywords in order. A single buffer is pre-allocated
// to avoid repeated growth.
func encodeKeywords(keywords []string) []byte {
	totalSize := 4
	for _, kw := range keywords {
		totalSize += 4 + len(kw)
	}

	buf := make([]byte, totalSize)
	offset := 0
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(keywords)))
	offset += 4

	for _, kw := range keywords {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(kw)))
		offset += 4
		copy(buf[offset:], kw)
		offset += len(kw)
	}
	return buf
}

// decodeKeywords decodes a keyword list. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodeKeywords(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("keyword list too short: %d bytes", len(data))
	}

	offset := 0
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// each keyword needs at least its length prefix
	if uint64(count)*4 > uint64(len(data)-offset) {
		return nil, fmt.Errorf("keyword count %d exceeds %d remaining bytes", count, len(data)-offset)
	}
	keywords := make([]string, 0, count)

	for i := uint32(0); i < count; i++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("truncated at keyword %d length (offset %d)", i, offset)
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		if n < 0 || offset+n > len(data) {
			return nil, fmt.Errorf("truncated at keyword %d (offset %d, need %d)", i, offset, n)
		}
		keywords = append(keywords, string(data[offset:offset+n]))
		offset += n
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after %d keywords", len(data)-offset, count)
	}
	return keywords, nil
}

// encodeGob encodes a value using gob.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
