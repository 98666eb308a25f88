package cpu

const (
	MEMORY_MIN     = 100 // Minimum memory size, in cells.
	MEMORY_MAX     = 999 // Maximum memory size addressable by the encoding.
	MEMORY_DEFAULT = 512 // Default memory size, in cells.
)

// Memory is a fixed-capacity array of numeric cells. Every cell holds a
// signed value wrapped to the configured cell width. All access is bounds
// checked against the configured size.
type Memory struct {
	bits  uint
	cells []int64
}

// NewMemory creates a memory of 'size' cells, each 'bits' wide.
// Size is clamped to [MEMORY_MIN, MEMORY_MAX].
func NewMemory(size uint, bits uint) (mem *Memory) {
	if size < MEMORY_MIN {
		size = MEMORY_MIN
	}
	if size > MEMORY_MAX {
		size = MEMORY_MAX
	}

	mem = &Memory{
		bits:  bits,
		cells: make([]int64, size),
	}

	return
}

// Size returns the number of cells.
func (mem *Memory) Size() uint {
	return uint(len(mem.cells))
}

// Bits returns the cell width in bits.
func (mem *Memory) Bits() uint {
	return mem.bits
}

// Read returns the value at 'addr', sign-extended from the cell width.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	if addr < 0 || addr >= int64(len(mem.cells)) {
		err = ErrOutOfBounds{Addr: addr, Size: mem.Size()}
		return
	}

	value = mem.cells[addr]

	return
}

// Write stores 'value' at 'addr', wrapped to the cell width.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	if addr < 0 || addr >= int64(len(mem.cells)) {
		err = ErrOutOfBounds{Addr: addr, Size: mem.Size()}
		return
	}

	mem.cells[addr] = wrapToBits(value, mem.bits)

	return
}

// Clear zeroes all cells.
func (mem *Memory) Clear() {
	clear(mem.cells)
}

// Load replaces the memory contents with 'image', zeroing any cells past
// the image length. Fails with ErrImageTooLarge, leaving the contents
// untouched, if the image does not fit.
func (mem *Memory) Load(image []int64) (err error) {
	if uint(len(image)) > mem.Size() {
		err = ErrImageTooLarge{Length: uint(len(image)), Size: mem.Size()}
		return
	}

	clear(mem.cells)
	for n, value := range image {
		mem.cells[n] = wrapToBits(value, mem.bits)
	}

	return
}

// Cells returns a copy of the memory contents.
func (mem *Memory) Cells() (cells []int64) {
	cells = make([]int64, len(mem.cells))
	copy(cells, mem.cells)

	return
}
