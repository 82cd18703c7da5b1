package checksum

import "testing"

func TestSum(t *testing.T) {
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different inputs should not collide")
	}
}

func TestETagRoundTrip(t *testing.T) {
	sum := Sum([]byte("# Title"))
	for _, header := range []string{ETag(sum), "W/" + ETag(sum), sum, " " + ETag(sum) + " "} {
		if got := FromETag(header); got != sum {
			t.Errorf("FromETag(%q) = %q", header, got)
		}
	}
}
