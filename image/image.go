// Package image loads raw 6502 program images: flat binaries placed as-is in
// the CPU address space.
package image

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/go-faster/errors"

	"mos6502/emu/log"
)

// MaxSize is the size of the 6502 address space.
const MaxSize = 0x10000

var (
	ErrEmpty    = errors.New("empty image")
	ErrTooLarge = errors.New("image larger than 64KB")
	ErrOverflow = errors.New("image runs past $FFFF")
)

// Image is a program image. Images returned by Open keep the file mapped in
// memory until Close is called.
type Image struct {
	Path string
	Data []byte

	mapping mmap.MMap
}

// Open loads an image from file.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if err := checkSize(fi.Size()); err != nil {
		return nil, errors.Wrap(err, path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", path)
	}

	img := &Image{
		Path:    path,
		Data:    m,
		mapping: m,
	}

	log.ModLoader.InfoZ("image loaded").
		String("path", path).
		Int("size", len(img.Data)).
		End()
	return img, nil
}

// Close releases the file mapping. Data is invalid after Close. Calling Close
// on an image not returned by Open, or more than once, is a no-op.
func (img *Image) Close() error {
	if img.mapping == nil {
		return nil
	}
	err := img.mapping.Unmap()
	img.mapping = nil
	img.Data = nil
	if err != nil {
		return errors.Wrap(err, "unmap")
	}
	return nil
}

// ReadFrom implements io.ReaderFrom interface
func (img *Image) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return 0, err
	}
	if err := checkSize(int64(len(buf))); err != nil {
		return 0, err
	}
	img.Data = buf
	return int64(len(buf)), nil
}

func checkSize(size int64) error {
	switch {
	case size == 0:
		return ErrEmpty
	case size > MaxSize:
		return ErrTooLarge
	}
	return nil
}

// Size returns the image size in bytes.
func (img *Image) Size() int {
	return len(img.Data)
}

// End returns the address of the last image byte when placed at origin.
func (img *Image) End(origin uint16) uint16 {
	return origin + uint16(len(img.Data)-1)
}

// Fits reports whether the image fits in the address space when placed at
// origin.
func (img *Image) Fits(origin uint16) bool {
	return int(origin)+len(img.Data) <= MaxSize
}

// PlaceInto copies the image into mem, which represents the whole address
// space, at origin.
func (img *Image) PlaceInto(mem []byte, origin uint16) error {
	if !img.Fits(origin) {
		return errors.Wrapf(ErrOverflow, "%d bytes at $%04X", len(img.Data), origin)
	}
	if int(origin)+len(img.Data) > len(mem) {
		return errors.Errorf("memory too small for image: %d bytes", len(mem))
	}
	copy(mem[origin:], img.Data)
	return nil
}

// Vectors returns the NMI, reset and IRQ vectors stored in the image, if it
// covers $FFFA-$FFFF when placed at origin.
func (img *Image) Vectors(origin uint16) (nmi, reset, irq uint16, ok bool) {
	if !img.Fits(origin) || int(origin)+len(img.Data) != MaxSize || len(img.Data) < 6 {
		return 0, 0, 0, false
	}
	word := func(addr int) uint16 {
		off := addr - int(origin)
		return uint16(img.Data[off]) | uint16(img.Data[off+1])<<8
	}
	return word(0xFFFA), word(0xFFFC), word(0xFFFE), true
}

// PrintInfos prints information about the image, as placed at origin.
func (img *Image) PrintInfos(w io.Writer, origin uint16) {
	fmt.Fprintf(w, "size:   %d bytes\n", len(img.Data))
	if !img.Fits(origin) {
		fmt.Fprintf(w, "origin: $%04X (does not fit)\n", origin)
		return
	}
	fmt.Fprintf(w, "origin: $%04X\n", origin)
	fmt.Fprintf(w, "end:    $%04X\n", img.End(origin))

	nmi, reset, irq, ok := img.Vectors(origin)
	if !ok {
		fmt.Fprintln(w, "vectors: not in image")
		return
	}
	fmt.Fprintf(w, "nmi:    $%04X\n", nmi)
	fmt.Fprintf(w, "reset:  $%04X\n", reset)
	fmt.Fprintf(w, "irq:    $%04X\n", irq)
}
