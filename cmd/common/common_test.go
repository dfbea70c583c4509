package common

import "testing"

func TestBeaut(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 7, "  abc  "},
		{"abc", 8, "  abc   "},
		{"", 4, "    "},
		{"abcd", 4, "abcd"},
	}
	for _, c := range cases {
		if got := Beaut(c.in, c.n); got != c.want {
			t.Errorf("Beaut(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}
