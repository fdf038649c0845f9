package present

import (
	"fmt"
	"testing"
)

func TestReadableTextColor(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"#FFFFFF", DarkText},
		{"#fff", DarkText},
		{"#FFFF00", DarkText},
		{"#000000", LightText},
		{"#FF0000", LightText},
		{"#0000FF", LightText},
		{"#00FF00", LightText},
		{"", DarkText},
		{"not-a-color", DarkText},
	}
	for _, tc := range cases {
		if got := ReadableTextColor(tc.hex); got != tc.want {
			t.Fatalf("ReadableTextColor(%q) = %s, want %s", tc.hex, got, tc.want)
		}
	}
}

func TestReadableTextColorFollowsStrictThreshold(t *testing.T) {
	for v := 0; v <= 255; v += 3 {
		for _, hex := range []string{
			fmt.Sprintf("#%02x%02x%02x", v, v, v),
			fmt.Sprintf("#%02x%02x%02x", v, 255-v, v/2),
		} {
			l, ok := Luminance(hex)
			if !ok {
				t.Fatalf("expected %s to parse", hex)
			}
			want := LightText
			if l > 0.6 {
				want = DarkText
			}
			if got := ReadableTextColor(hex); got != want {
				t.Fatalf("%s luminance %v: got %s want %s", hex, l, got, want)
			}
		}
	}
}

func TestShortHexExpands(t *testing.T) {
	short, _ := Luminance("#3a7")
	long, _ := Luminance("#33aa77")
	if short != long {
		t.Fatalf("expected #3a7 to equal #33aa77, got %v vs %v", short, long)
	}
}
