package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "json", want: JSONFormat},
		{in: "j", want: JSONFormat},
		{in: "yaml", want: YAMLFormat},
		{in: "yml", want: YAMLFormat},
		{in: "y", want: YAMLFormat},
		{in: "toml", want: TOMLFormat},
		{in: "t", want: TOMLFormat},
		{in: "xml", err: true},
		{in: "", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				if !errors.Is(err, ErrBadFormat) {
					t.Fatalf("ParseFormat(%q) err = %v, want ErrBadFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	f, err := FromPath("dir/catalog.json")
	if err != nil || f != JSONFormat {
		t.Errorf("FromPath = %v, %v", f, err)
	}
	if _, err := FromPath("catalog"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("no extension: %v, want ErrBadFormat", err)
	}
}

func TestSuffixRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := FromPath("x" + f.Suffix())
		if err != nil || got != f {
			t.Errorf("suffix round trip for %v: %v, %v", f, got, err)
		}
		if !IsKnownSuffix(f.Suffix()) {
			t.Errorf("IsKnownSuffix(%q) = false", f.Suffix())
		}
	}
}
