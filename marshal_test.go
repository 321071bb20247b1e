package somfy

import (
	"bytes"
	"fmt"
	"math"
	"testing"
)

func TestMarshalUint16(t *testing.T) {
	cases := []struct {
		val uint16
		rep []byte
	}{
		{0x1234, []byte{0x12, 0x34}},
		{0, []byte{0, 0}},
		{math.MaxUint16, []byte{0xFF, 0xFF}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("marshal16_%d", c.val), func(t *testing.T) {
			rep := marshalUint16(c.val)
			if !bytes.Equal(rep, c.rep) {
				t.Errorf("marshalUint16(%04X) == % X, want % X", c.val, rep, c.rep)
			}
			if v := unmarshalUint16(rep); v != c.val {
				t.Errorf("unmarshalUint16(% X) == %04X, want %04X", rep, v, c.val)
			}
		})
	}
}

func TestMarshalUint24(t *testing.T) {
	cases := []struct {
		val  uint32
		rep  []byte
		back uint32
	}{
		{0x123456, []byte{0x12, 0x34, 0x56}, 0x123456},
		{0, []byte{0, 0, 0}, 0},
		{0xFFFFFF, []byte{0xFF, 0xFF, 0xFF}, 0xFFFFFF},
		{0x12345678, []byte{0x34, 0x56, 0x78}, 0x345678},
		{math.MaxUint32, []byte{0xFF, 0xFF, 0xFF}, 0xFFFFFF},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("marshal24_%d", c.val), func(t *testing.T) {
			rep := marshalUint24(c.val)
			if !bytes.Equal(rep, c.rep) {
				t.Errorf("marshalUint24(%08X) == % X, want % X", c.val, rep, c.rep)
			}
			if v := unmarshalUint24(rep); v != c.back {
				t.Errorf("unmarshalUint24(% X) == %06X, want %06X", rep, v, c.back)
			}
		})
	}
}
