package buffers

import (
	"fmt"
	"math"

	"github.com/edsrzf/mmap-go"
)

// AllocationError is returned when a buffer region can not be mapped,
// pinned or initialized at the requested size.
type AllocationError struct {
	Size int64
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("could not allocate %v byte(s): %v", e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// Region is a page-aligned memory area mapped outside the Go heap.
// The GC neither moves nor scans it, so the measured loop sees stable
// addresses.
type Region struct {
	m mmap.MMap
}

// Alloc maps size bytes of anonymous page-aligned memory and fills
// them with pattern. The fill writes every page, so first-touch page
// faults are taken here and never inside a measured repetition.
func Alloc(size int64, pattern byte) (*Region, error) {
	if size < 1 {
		return nil, &AllocationError{
			Size: size,
			Err:  fmt.Errorf("size must be positive"),
		}
	}

	if size > math.MaxInt {
		return nil, &AllocationError{
			Size: size,
			Err:  fmt.Errorf("size exceeds the addressable range"),
		}
	}

	m, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, &AllocationError{
			Size: size,
			Err:  err,
		}
	}

	region := &Region{
		m: m,
	}
	region.fill(pattern)

	return region, nil
}

func (r *Region) fill(pattern byte) {
	b := r.m

	b[0] = pattern
	for i := 1; i < len(b); i *= 2 {
		copy(b[i:], b[:i])
	}
}

// Bytes returns the mapped memory. Valid until Close.
func (r *Region) Bytes() []byte {
	return r.m
}

// Len returns the region's size in bytes.
func (r *Region) Len() int64 {
	return int64(len(r.m))
}

// Lock pins the region's pages into RAM so that paging can not
// disturb a measurement. Needs CAP_IPC_LOCK or a sufficient
// RLIMIT_MEMLOCK on Linux.
func (r *Region) Lock() error {
	return lock(r.m)
}

// Unlock releases pages pinned by Lock.
func (r *Region) Unlock() error {
	return unlock(r.m)
}

// Close unmaps the region. The slice returned by Bytes must not be
// used afterwards. Close is idempotent.
func (r *Region) Close() error {
	if r.m == nil {
		return nil
	}

	m := r.m
	r.m = nil

	return m.Unmap()
}
