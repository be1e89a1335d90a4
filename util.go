package vkbegins

import (
	"encoding/binary"
	"strings"
)

const nullTerm = "\x00"

// safeString null-terminates s for the C side of vulkan-go.
func safeString(s string) string {
	if strings.HasSuffix(s, nullTerm) {
		return s
	}
	return s + nullTerm
}

func safeStrings(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, safeString(s))
	}
	return out
}

func trimName(s string) string {
	return strings.TrimRight(s, nullTerm)
}

// missingNames returns every entry of required absent from actual, in
// required order. Names are compared without terminators.
func missingNames(actual, required []string) []string {
	have := make(map[string]struct{}, len(actual))
	for _, name := range actual {
		have[trimName(name)] = struct{}{}
	}
	var missing []string
	for _, name := range required {
		if _, ok := have[trimName(name)]; !ok {
			missing = append(missing, trimName(name))
		}
	}
	return missing
}

// mergeNames appends extra to base, skipping duplicates.
func mergeNames(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			key := trimName(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// sliceUint32 reinterprets SPIR-V bytes as little-endian words. A trailing
// partial word is dropped.
func sliceUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
