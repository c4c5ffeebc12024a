package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-1, "-1"},
		{-360, "-360"},
		{9223372036854775807, "9223372036854775807"},
	}
	for _, c := range cases {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Errorf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}

	if got := string(Itoa(nil, 5)); got != "" {
		t.Errorf("Itoa with empty buf = %q, want empty", got)
	}
}

func TestUtoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{90, "90"},
		{18446744073709551615, "18446744073709551615"},
	}
	for _, c := range cases {
		if got := string(Utoa(buf[:], c.n)); got != c.want {
			t.Errorf("Utoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
