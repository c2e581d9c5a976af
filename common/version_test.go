package common

import "testing"

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version returned an empty string")
	}
}
