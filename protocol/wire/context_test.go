package wire

import "testing"

func TestContextReset(t *testing.T) {
	c := NewContext()
	c.ASWidth = 2
	c.AddPath = true
	c.AFI = 2
	c.SAFI = 1
	c.Depth = 3

	c.Reset()

	if c.ASWidth != 4 || c.AddPath || c.AFI != 0 || c.SAFI != 0 || c.Depth != 0 {
		t.Errorf("Reset left stale state: %+v", c)
	}
}

func TestSetASWidthFromSubtypeName(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"MESSAGE", 2},
		{"MESSAGE_AS4", 4},
		{"MESSAGE_AS4_ADDPATH", 4},
		{"STATE_CHANGE", 2},
	}
	for _, tc := range cases {
		c := NewContext()
		c.SetASWidthFromSubtypeName(tc.name)
		if c.ASWidth != tc.want {
			t.Errorf("%s: got width %d, want %d", tc.name, c.ASWidth, tc.want)
		}
	}
}

func TestSetAddPathFromSubtypeName(t *testing.T) {
	c := NewContext()
	c.SetAddPathFromSubtypeName("RIB_IPV4_UNICAST_ADDPATH")
	if !c.AddPath {
		t.Error("expected AddPath=true")
	}
	c.SetAddPathFromSubtypeName("RIB_IPV4_UNICAST")
	if c.AddPath {
		t.Error("expected AddPath=false")
	}
}

func TestWithDepthAndExceeded(t *testing.T) {
	c := NewContext()
	for i := 0; i < MaxNestDepth; i++ {
		if c.Exceeded() {
			t.Fatalf("exceeded too early at depth %d", c.Depth)
		}
		c = c.WithDepth()
	}
	if !c.Exceeded() {
		t.Error("expected depth bound to be exceeded")
	}
}
