package palette

import (
	"testing"

	"github.com/willbeason/mandelspiral/pkg/escape"
)

func TestMap(t *testing.T) {
	tcs := []struct {
		result escape.Result
		want   RGB
	}{
		{result: escape.InSet(), want: RGB{0, 0, 102}},
		{result: escape.EscapedAfter(0), want: RGB{255, 0, 0}},
		{result: escape.EscapedAfter(15), want: RGB{127, 127, 0}},
		{result: escape.EscapedAfter(29), want: RGB{8, 246, 0}},
		{result: escape.EscapedAfter(30), want: RGB{0, 255, 0}},
		{result: escape.EscapedAfter(45), want: RGB{0, 127, 127}},
		{result: escape.EscapedAfter(60), want: RGB{0, 0, 255}},
		{result: escape.EscapedAfter(75), want: RGB{127, 0, 127}},
		{result: escape.EscapedAfter(90), want: RGB{255, 0, 0}},
	}

	for _, tc := range tcs {
		t.Run(tc.result.String(), func(t *testing.T) {
			if got := Map(tc.result); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMap_Periodic(t *testing.T) {
	for i := 0; i < 10*Period; i++ {
		a := Map(escape.EscapedAfter(i))
		b := Map(escape.EscapedAfter(i + Period))
		if a != b {
			t.Fatalf("%d: %v != %v", i, a, b)
		}
	}
}

func TestPalette_SetColor(t *testing.T) {
	p := Palette{Set: RGB{1, 2, 3}}
	if got := p.Map(escape.InSet()); got != (RGB{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestPack(t *testing.T) {
	c := RGB{R: 0x12, G: 0x34, B: 0x56}
	if got := c.Pack(); got != 0x123456 {
		t.Errorf("Pack = %#x", got)
	}
	if got := Unpack(0xff123456); got != c {
		t.Errorf("Unpack = %v", got)
	}
}
