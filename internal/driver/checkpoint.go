package driver

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Checkpoint is an entry or exit observation of one invocation: the length
// and an FNV-1a hash of the buffer the call worked on. Diagnostic only.
type Checkpoint struct {
	Label string
	Len   int
	Hash  uint64
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("CP %s len=%d hash=%016x", c.Label, c.Len, c.Hash)
}

func checkpointBytes(label string, b []byte) Checkpoint {
	h := fnv.New64a()
	_, _ = h.Write(b)

	return Checkpoint{Label: label, Len: len(b), Hash: h.Sum64()}
}

func checkpointInts(label string, vals []int32) Checkpoint {
	h := fnv.New64a()

	var raw [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(raw[:], uint32(v))
		_, _ = h.Write(raw[:])
	}

	return Checkpoint{Label: label, Len: len(vals), Hash: h.Sum64()}
}
