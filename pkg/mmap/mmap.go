package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MemoryMap represents a memory mapped region
type MemoryMap struct {
	size   int
	region []byte
}

// Open maps size bytes of the file at path, shared and writable. It works
// on device nodes such as /dev/fb0 as well as regular files.
func Open(path string, size int) (*MemoryMap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid mapping size %d", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	region, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap %s: %w", path, err)
	}

	return &MemoryMap{
		size:   size,
		region: region,
	}, nil
}

// Close unmaps the memory region
func (m *MemoryMap) Close() error {
	if m.region == nil {
		return nil
	}
	err := unix.Munmap(m.region)
	m.region = nil
	return err
}

// Region returns the mapped memory region
func (m *MemoryMap) Region() []byte {
	return m.region
}

// Size returns the length of the mapping.
func (m *MemoryMap) Size() int {
	return m.size
}

// WriteBytes writes a byte slice to the memory region
func (m *MemoryMap) WriteBytes(offset int, data []byte) {
	copy(m.region[offset:], data)
}

// Sync flushes the region to the underlying file.
func (m *MemoryMap) Sync() error {
	return unix.Msync(m.region, unix.MS_SYNC)
}
