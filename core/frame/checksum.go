// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"encoding/binary"
	"hash/crc32"
)

// frameChecksum accumulates written bytes into a running CRC32-C
// (Castagnoli) checksum, as required by the "payload" command frame
// format. It implements io.Writer so it can sit behind a io.TeeReader on
// decode and be fed directly via binary.Write/Write on encode.
type frameChecksum struct {
	crc uint32
}

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func (c *frameChecksum) Write(p []byte) (int, error) {
	c.crc = crc32.Update(c.crc, castagnoliTable, p)
	return len(p), nil
}

// compute returns the big-endian encoded checksum of everything written
// so far.
func (c *frameChecksum) compute() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.crc)
	return b
}
