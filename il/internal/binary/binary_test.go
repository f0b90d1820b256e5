package binary

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}
	if r.Remaining() != 2 {
		t.Errorf("remaining: got %d, want 2", r.Remaining())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("position after failed read: got %d, want 3", r.Position())
	}
}

func TestRoundTripFixedWidth(t *testing.T) {
	w := NewWriter()
	w.Byte(0xFE)
	w.WriteU16(0xBEEF)
	w.WriteU32(0xDEADBEEF)
	w.WriteU64(0x0102030405060708)
	w.WriteBytes([]byte{9, 10})

	if w.Len() != 1+2+4+8+2 {
		t.Fatalf("Len: got %d", w.Len())
	}

	r := NewReader(w.Bytes())
	if b, _ := r.ReadByte(); b != 0xFE {
		t.Errorf("byte: got 0x%02x", b)
	}
	if v, _ := r.ReadU16(); v != 0xBEEF {
		t.Errorf("u16: got 0x%x", v)
	}
	if v, _ := r.ReadU32(); v != 0xDEADBEEF {
		t.Errorf("u32: got 0x%x", v)
	}
	if v, _ := r.ReadU64(); v != 0x0102030405060708 {
		t.Errorf("u64: got 0x%x", v)
	}
	if rest, _ := r.ReadBytes(2); !bytes.Equal(rest, []byte{9, 10}) {
		t.Errorf("tail: got %v", rest)
	}
}

func TestWriterPatch(t *testing.T) {
	w := NewWriter()
	w.Byte(0x38)
	site := w.Len()
	w.WriteU32(0)
	w.Byte(0x2B)
	short := w.Len()
	w.Byte(0)

	w.PatchU32(site, 0x11223344)
	w.PatchU8(short, 0xF0)

	want := []byte{0x38, 0x44, 0x33, 0x22, 0x11, 0x2B, 0xF0}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("patched: got % x, want % x", w.Bytes(), want)
	}
}

func TestReaderReset(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if _, err := r.ReadU32(); err != nil {
		t.Fatal(err)
	}
	if err := r.Reset(2); err != nil {
		t.Fatal(err)
	}
	if r.Position() != 2 {
		t.Errorf("position: got %d, want 2", r.Position())
	}
	if v, _ := r.ReadU16(); v != 0x0403 {
		t.Errorf("u16 after reset: got 0x%x", v)
	}
}

func TestWrapError(t *testing.T) {
	r := NewReader([]byte{1})
	_, _ = r.ReadByte()
	err := r.WrapError("code", io.ErrUnexpectedEOF)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 1 || pe.Section != "code" {
		t.Errorf("ParseError = %+v", pe)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ParseError should unwrap to cause")
	}
	if again := r.WrapError("outer", err); again != err {
		t.Error("WrapError should not double-wrap")
	}
}
