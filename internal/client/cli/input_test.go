package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  alice  \n"))

	got, err := GetSimpleText(r, "Enter username", &out)
	if err != nil {
		t.Fatalf("GetSimpleText err: %v", err)
	}
	if got != "alice" {
		t.Fatalf("GetSimpleText = %q, want %q", got, "alice")
	}
	if !strings.Contains(out.String(), "Enter username") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("bob"))

	got, err := GetSimpleText(r, "Enter username", &out)
	if err != nil {
		t.Fatalf("GetSimpleText err: %v", err)
	}
	if got != "bob" {
		t.Fatalf("GetSimpleText = %q, want %q", got, "bob")
	}
}

func TestGetPassword_UsesStubbedReader(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	if err != nil {
		t.Fatalf("GetPassword err: %v", err)
	}
	if string(pw) != "secret" {
		t.Fatalf("GetPassword = %q", string(pw))
	}
	if !strings.Contains(out.String(), "Enter password") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}
