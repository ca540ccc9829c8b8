package diag

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// longHashTag prefixes every long-hash string (spec §6).
const longHashTag = "JC0"

// base58Alphabet is the Bitcoin-style alphabet used to render the
// long-hash payload. No third-party base58 encoder appears anywhere in
// the reference corpus, so this is a small self-contained implementation
// rather than a stdlib fallback for an ambient concern (see DESIGN.md).
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// shortHash returns the first 8 bytes of SHA-256("message::file::line::column::")
// read little-endian (byte 0 is the least-significant byte, matching the
// original implementation's `hash[i] << (i*8)` accumulation), used for
// intra-run de-duplication (spec §4.5).
func shortHash(message, file string, line, column int) uint64 {
	payload := fmt.Sprintf("%s::%s::%d::%d::", message, file, line, column)
	sum := sha256.Sum256([]byte(payload))
	return binary.LittleEndian.Uint64(sum[:8])
}

// longHash builds the stable, user-quotable diagnostic identifier: tag
// "JC0" followed by base58 of 22 bytes: {hash[0..12], unix_ts_le32,
// line_le16, column_le32} (spec §6).
func longHash(message, file string, line, column int, unixTS int64) string {
	payload := fmt.Sprintf("%s::%s::%d::%d::", message, file, line, column)
	sum := sha256.Sum256([]byte(payload))

	buf := make([]byte, 22)
	copy(buf[0:12], sum[:12])
	binary.LittleEndian.PutUint32(buf[12:16], uint32(unixTS))
	binary.LittleEndian.PutUint16(buf[16:18], uint16(line))
	binary.LittleEndian.PutUint32(buf[18:22], uint32(column))

	return longHashTag + base58Encode(buf)
}

// base58Encode encodes data as a base58 string, preserving leading
// zero bytes as leading '1' characters the way Bitcoin-style base58 does.
func base58Encode(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	// big-endian byte division by 58, repeatedly.
	input := append([]byte(nil), data...)
	var out []byte
	for len(input) > 0 && !allZero(input) {
		input, out = divmod58(input, out)
	}

	for i := 0; i < zeros; i++ {
		out = append(out, base58Alphabet[0])
	}
	reverse(out)
	return string(out)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// divmod58 divides the big-endian number in input by 58, appends the
// remainder's base58 digit to out, and returns the (possibly shorter)
// quotient alongside the updated out slice.
func divmod58(input []byte, out []byte) ([]byte, []byte) {
	quotient := make([]byte, 0, len(input))
	remainder := 0
	started := false
	for _, b := range input {
		acc := remainder*256 + int(b)
		digit := acc / 58
		remainder = acc % 58
		if digit != 0 || started {
			quotient = append(quotient, byte(digit))
			started = true
		}
	}
	out = append(out, base58Alphabet[remainder])
	return quotient, out
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
