package engine

// packKey and unpackKey isolate the bit-packing convention used by
// core.k so that tests and diagnostics can construct or inspect keys
// without duplicating the shift-and-mask logic.
func packKey(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

func unpackKey(key uint64) (hi, lo uint32) {
	return uint32(key >> 32), uint32(key)
}
