package common

import "testing"

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %v", i, v)
		}
	}

	// nil must not panic
	WipeByteArray(nil)
}
