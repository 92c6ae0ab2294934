package partition

import (
	"fmt"
)

// Range is a contiguous byte range [Off, Off+Len) within a buffer.
type Range struct {
	Off int64
	Len int64
}

// End returns the first offset past the range.
func (r Range) End() int64 {
	return r.Off + r.Len
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Off, r.End())
}

// InvalidPartitionError is returned when a buffer can not be split
// across the requested number of threads.
type InvalidPartitionError struct {
	Size    int64
	Threads int
}

func (e *InvalidPartitionError) Error() string {
	return fmt.Sprintf("can not partition %v byte(s) across %v thread(s): every thread needs at least one byte", e.Size, e.Threads)
}

// Split divides [0, size) into threads contiguous, disjoint ranges
// that cover it exactly once. When size is not evenly divisible, the
// first size%threads ranges get one extra byte, so no two ranges
// differ in length by more than one.
func Split(size int64, threads int) ([]Range, error) {
	if size < 1 || threads < 1 || int64(threads) > size {
		return nil, &InvalidPartitionError{
			Size:    size,
			Threads: threads,
		}
	}

	base := size / int64(threads)
	remainder := size % int64(threads)

	ranges := make([]Range, threads)

	off := int64(0)
	for i := range ranges {
		length := base
		if int64(i) < remainder {
			length++
		}

		ranges[i] = Range{
			Off: off,
			Len: length,
		}

		off += length
	}

	return ranges, nil
}
