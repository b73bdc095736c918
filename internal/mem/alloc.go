// Package mem provides aligned memory allocation for the event columns.
package mem

import (
	"unsafe"
)

// Alignment is the byte boundary the event column block is aligned to.
// 32 bytes covers AVX2-width vectorized access by downstream samplers.
const Alignment = 32

// AllocAligned allocates a byte slice of the given size whose first byte
// lies on a 32-byte boundary.
//
// Go cannot request aligned memory directly, so the slice is carved out of
// a slightly larger allocation. The underlying array is kept alive by the
// returned slice. Allocation failure is process-fatal (the runtime throws);
// there is no recoverable out-of-memory path.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // required for alignment arithmetic
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedFloat32 allocates a float32 slice of the given length with
// 32-byte alignment.
func AllocAlignedFloat32(size int) []float32 {
	if size <= 0 {
		return nil
	}

	byteSlice := AllocAligned(size * 4)

	// Safe: 32-byte alignment implies the 4-byte alignment float32 needs.
	ptr := unsafe.Pointer(&byteSlice[0])       //nolint:gosec // required for alignment arithmetic
	return unsafe.Slice((*float32)(ptr), size) //nolint:gosec // required for alignment arithmetic
}
