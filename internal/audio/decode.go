package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// offset of the sub-format code inside an extensible fmt chunk
	extensibleSubFormatOffset = 24

	mp3ReadSize = 64 << 10
)

// ErrUnsupportedFormat is returned for files Decode cannot read
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decode reads a whole .wav or .mp3 file into memory
func Decode(path string) (*Stream, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Probe reports whether Decode can read path, looking at headers only
func Probe(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		f, _, err := openWAV(path)
		if err != nil {
			return err
		}
		return f.Close()
	case ".mp3":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open mp3: %w", err)
		}
		defer f.Close()
		if _, err := mp3.NewDecoder(f); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// openWAV opens path and checks it holds integer PCM, plain or extensible
func openWAV(path string) (*os.File, *wav.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open wav: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s is not a valid wav file", ErrUnsupportedFormat, filepath.Base(path))
	}

	format := dec.WavAudioFormat
	if format == wavFormatExtensible {
		sub, err := wavSubFormat(path)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		format = sub
	}
	if format != wavFormatPCM {
		f.Close()
		return nil, nil, fmt.Errorf("%w: wav audio format %d is not PCM", ErrUnsupportedFormat, format)
	}

	return f, dec, nil
}

func decodeWAV(path string) (*Stream, error) {
	f, dec, err := openWAV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	return &Stream{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Data:       buf.Data,
	}, nil
}

// wavSubFormat reads the sub-format code of a WAVE_FORMAT_EXTENSIBLE fmt chunk
func wavSubFormat(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return 0, fmt.Errorf("%w: read riff header: %v", ErrUnsupportedFormat, err)
	}

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk: %v", ErrUnsupportedFormat, err)
		}
		size := int64(binary.LittleEndian.Uint32(hdr[4:]))

		if string(hdr[:4]) != "fmt " {
			if _, err := f.Seek(size+size%2, io.SeekCurrent); err != nil {
				return 0, fmt.Errorf("%w: skip chunk: %v", ErrUnsupportedFormat, err)
			}
			continue
		}

		if size < extensibleSubFormatOffset+2 {
			return 0, fmt.Errorf("%w: extensible fmt chunk too short (%d bytes)", ErrUnsupportedFormat, size)
		}
		body := make([]byte, extensibleSubFormatOffset+2)
		if _, err := io.ReadFull(f, body); err != nil {
			return 0, fmt.Errorf("%w: read fmt chunk: %v", ErrUnsupportedFormat, err)
		}
		return binary.LittleEndian.Uint16(body[extensibleSubFormatOffset:]), nil
	}
}

// decodeMP3 yields 16-bit stereo, the only layout go-mp3 produces
func decodeMP3(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mp3: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	data, err := readPCM16(dec, dec.Length())
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	return &Stream{
		SampleRate: dec.SampleRate(),
		Channels:   2,
		BitDepth:   16,
		Data:       data,
	}, nil
}

// readPCM16 converts little-endian 16-bit samples from r in fixed-size reads.
// sizeHint is the expected byte length, or negative when unknown.
func readPCM16(r io.Reader, sizeHint int64) ([]int, error) {
	var data []int
	if sizeHint > 0 {
		data = make([]int, 0, sizeHint/2)
	}

	buf := make([]byte, mp3ReadSize)
	for {
		n, err := io.ReadFull(r, buf)
		for i := 0; i+1 < n; i += 2 {
			data = append(data, int(int16(binary.LittleEndian.Uint16(buf[i:]))))
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return data, nil
		default:
			return nil, err
		}
	}
}
