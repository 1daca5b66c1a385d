package slug

import "testing"

func TestFromName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  ", "trimmed"},
		{"Go 1.24 & Friends!", "go-1-24-friends"},
		{"---", "item"},
		{"", "item"},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tc := range cases {
		if got := FromName(tc.in); got != tc.want {
			t.Errorf("FromName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
