package utils

import "testing"

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"https://mail.google.com/mail/u/0": "mail.google.com",
		"http://www.example.com":           "example.com",
		"example.org/path":                 "example.org",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hell…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("Truncate should not pad: %q", got)
	}
}
