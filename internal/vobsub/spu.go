package vobsub

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// SPU control commands.
const (
	cmdForceDisplay = 0x00
	cmdStartDisplay = 0x01
	cmdStopDisplay  = 0x02
	cmdSetPalette   = 0x03
	cmdSetAlpha     = 0x04
	cmdSetWindow    = 0x05
	cmdSetRLEOffset = 0x06
	cmdChangeColCon = 0x07
	cmdEnd          = 0xff
)

// subpicture is one parsed SPU before pixel expansion into an Event.
type subpicture struct {
	width   int
	height  int
	palette [4]uint8
	alpha   [4]uint8
	forced  bool

	// stopDelay is the delay of the stop-display command relative to the
	// packet's presentation time; zero when the SPU never stops itself.
	stopDelay time.Duration

	rleTop    int
	rleBottom int
	data      []byte
}

// readSPU reassembles one subpicture unit from the program stream starting
// at the given byte offset. An SPU may span several PES packets; its first
// two bytes declare the total size.
func readSPU(r io.ReaderAt, offset int64, streamSize int64) ([]byte, error) {
	section := io.NewSectionReader(r, offset, streamSize-offset)
	var spu []byte
	want := -1

	header := make([]byte, 4)
	for want < 0 || len(spu) < want {
		if _, err := io.ReadFull(section, header); err != nil {
			return nil, fmt.Errorf("read start code: %w", err)
		}
		if header[0] != 0x00 || header[1] != 0x00 || header[2] != 0x01 {
			return nil, fmt.Errorf("bad start code %02x%02x%02x%02x", header[0], header[1], header[2], header[3])
		}
		switch header[3] {
		case 0xba: // pack header: 10 fixed bytes plus stuffing
			pack := make([]byte, 10)
			if _, err := io.ReadFull(section, pack); err != nil {
				return nil, fmt.Errorf("read pack header: %w", err)
			}
			stuffing := int(pack[9] & 0x07)
			if _, err := section.Seek(int64(stuffing), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skip pack stuffing: %w", err)
			}
		case 0xbd: // private stream 1: subpicture payload
			payload, err := readPESPayload(section)
			if err != nil {
				return nil, err
			}
			if len(payload) < 1 {
				return nil, fmt.Errorf("empty private stream packet")
			}
			substream := payload[0]
			if substream < 0x20 || substream > 0x3f {
				// Not a subpicture substream; skip.
				continue
			}
			spu = append(spu, payload[1:]...)
			if want < 0 && len(spu) >= 2 {
				want = int(binary.BigEndian.Uint16(spu[:2]))
				if want == 0 {
					return nil, fmt.Errorf("subpicture declares zero size")
				}
			}
		default: // system header, padding, other elementary streams
			var sizeBytes [2]byte
			if _, err := io.ReadFull(section, sizeBytes[:]); err != nil {
				return nil, fmt.Errorf("read packet size: %w", err)
			}
			size := int64(binary.BigEndian.Uint16(sizeBytes[:]))
			if _, err := section.Seek(size, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skip packet: %w", err)
			}
		}
	}
	return spu[:want], nil
}

// readPESPayload consumes one PES packet body (after the 4-byte start code)
// and returns its payload.
func readPESPayload(r io.Reader) ([]byte, error) {
	var head [2]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read pes length: %w", err)
	}
	body := make([]byte, binary.BigEndian.Uint16(head[:]))
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read pes body: %w", err)
	}
	if len(body) < 3 {
		return nil, fmt.Errorf("pes body too short")
	}
	headerLen := int(body[2])
	if 3+headerLen > len(body) {
		return nil, fmt.Errorf("pes header length %d exceeds body", headerLen)
	}
	return body[3+headerLen:], nil
}

// parseSPU walks the SPU control sequences.
func parseSPU(data []byte) (*subpicture, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("subpicture too short (%d bytes)", len(data))
	}
	sub := &subpicture{data: data}
	ctrl := int(binary.BigEndian.Uint16(data[2:4]))

	seen := map[int]bool{}
	off := ctrl
	for {
		if off+4 > len(data) || seen[off] {
			return nil, fmt.Errorf("control sequence offset %d out of range", off)
		}
		seen[off] = true
		date := int(binary.BigEndian.Uint16(data[off:]))
		next := int(binary.BigEndian.Uint16(data[off+2:]))
		delay := spuDelay(date)

		i := off + 4
	commands:
		for {
			if i >= len(data) {
				return nil, fmt.Errorf("unterminated control sequence")
			}
			switch data[i] {
			case cmdForceDisplay:
				sub.forced = true
				i++
			case cmdStartDisplay:
				i++
			case cmdStopDisplay:
				sub.stopDelay = delay
				i++
			case cmdSetPalette:
				if i+3 > len(data) {
					return nil, fmt.Errorf("truncated palette command")
				}
				// Stored nibble order is emphasis2, emphasis1, pattern,
				// background: the reverse of pixel slot numbering.
				sub.palette = [4]uint8{
					data[i+1] >> 4, data[i+1] & 0x0f,
					data[i+2] >> 4, data[i+2] & 0x0f,
				}
				i += 3
			case cmdSetAlpha:
				if i+3 > len(data) {
					return nil, fmt.Errorf("truncated alpha command")
				}
				sub.alpha = [4]uint8{
					data[i+1] >> 4, data[i+1] & 0x0f,
					data[i+2] >> 4, data[i+2] & 0x0f,
				}
				i += 3
			case cmdSetWindow:
				if i+7 > len(data) {
					return nil, fmt.Errorf("truncated window command")
				}
				x1 := int(data[i+1])<<4 | int(data[i+2])>>4
				x2 := int(data[i+2]&0x0f)<<8 | int(data[i+3])
				y1 := int(data[i+4])<<4 | int(data[i+5])>>4
				y2 := int(data[i+5]&0x0f)<<8 | int(data[i+6])
				if x2 < x1 || y2 < y1 {
					return nil, fmt.Errorf("invalid display window (%d,%d)-(%d,%d)", x1, y1, x2, y2)
				}
				sub.width = x2 - x1 + 1
				sub.height = y2 - y1 + 1
				i += 7
			case cmdSetRLEOffset:
				if i+5 > len(data) {
					return nil, fmt.Errorf("truncated rle offset command")
				}
				sub.rleTop = int(binary.BigEndian.Uint16(data[i+1:]))
				sub.rleBottom = int(binary.BigEndian.Uint16(data[i+3:]))
				i += 5
			case cmdChangeColCon:
				if i+3 > len(data) {
					return nil, fmt.Errorf("truncated colcon command")
				}
				size := int(binary.BigEndian.Uint16(data[i+1:]))
				if size < 2 || i+1+size > len(data) {
					return nil, fmt.Errorf("invalid colcon size %d", size)
				}
				i += 1 + size
			case cmdEnd:
				break commands
			default:
				return nil, fmt.Errorf("unknown control command 0x%02x", data[i])
			}
		}

		if next == off {
			break
		}
		off = next
	}

	if sub.width == 0 || sub.height == 0 {
		return nil, fmt.Errorf("subpicture declares no display window")
	}
	if sub.rleTop == 0 || sub.rleBottom == 0 {
		return nil, fmt.Errorf("subpicture declares no pixel data")
	}
	return sub, nil
}

// spuDelay converts a control-sequence date field (units of 1024/90000s)
// to a duration.
func spuDelay(date int) time.Duration {
	return time.Duration(date) * 1024 * time.Second / 90000
}

// nibbleReader walks a byte slice half a byte at a time, as the SPU RLE
// stream requires.
type nibbleReader struct {
	data []byte
	pos  int // nibble index
}

func (r *nibbleReader) next() (uint16, error) {
	byteIx := r.pos / 2
	if byteIx >= len(r.data) {
		return 0, fmt.Errorf("rle data exhausted")
	}
	b := r.data[byteIx]
	r.pos++
	if r.pos%2 == 1 {
		return uint16(b >> 4), nil
	}
	return uint16(b & 0x0f), nil
}

func (r *nibbleReader) alignByte() {
	if r.pos%2 == 1 {
		r.pos++
	}
}

// decodePixels expands the SPU's two interlaced RLE fields into a row-major
// slot buffer. Even rows come from the top field, odd rows from the bottom.
func (s *subpicture) decodePixels() ([]uint8, error) {
	if s.rleTop >= len(s.data) || s.rleBottom > len(s.data) {
		return nil, fmt.Errorf("rle offsets out of range")
	}
	top := &nibbleReader{data: s.data[s.rleTop:]}
	bottom := &nibbleReader{data: s.data[s.rleBottom:]}

	pixels := make([]uint8, s.width*s.height)
	for y := 0; y < s.height; y++ {
		field := top
		if y%2 == 1 {
			field = bottom
		}
		if err := decodeLine(field, pixels[y*s.width:(y+1)*s.width]); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
	}
	return pixels, nil
}

// decodeLine fills one scanline. Codes grow nibble by nibble until the run
// length bits are non-zero; a full 16-bit code with a zero run fills the
// rest of the line.
func decodeLine(r *nibbleReader, row []uint8) error {
	x := 0
	for x < len(row) {
		v, err := r.next()
		if err != nil {
			return err
		}
		for _, threshold := range []uint16{0x4, 0x10, 0x40} {
			if v >= threshold {
				break
			}
			n, err := r.next()
			if err != nil {
				return err
			}
			v = v<<4 | n
		}
		run := int(v >> 2)
		color := uint8(v & 0x03)
		if run == 0 || run > len(row)-x {
			run = len(row) - x
		}
		for i := 0; i < run; i++ {
			row[x+i] = color
		}
		x += run
	}
	r.alignByte()
	return nil
}
