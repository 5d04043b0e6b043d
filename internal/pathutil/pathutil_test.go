package pathutil

import (
	"reflect"
	"testing"
)

func TestIsDir(t *testing.T) {
	if !IsDir("/repo/src/") {
		t.Error("IsDir(\"/repo/src/\") = false, want true")
	}
	if IsDir("/repo/src/a.c") {
		t.Error("IsDir(\"/repo/src/a.c\") = true, want false")
	}
}

func TestBase(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/repo/src/a.c", "a.c"},
		{"/repo/src/", "src"},
		{"/repo", "repo"},
		{"a.c", "a.c"},
	}
	for _, tc := range cases {
		if got := Base(tc.path); got != tc.want {
			t.Errorf("Base(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSplit(t *testing.T) {
	got := Split("/repo/src/a.c")
	want := []string{"repo", "src", "a.c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split = %v, want %v", got, want)
	}

	if parts := Split("/"); parts != nil {
		t.Errorf("Split(\"/\") = %v, want nil", parts)
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"repo", "src"}); got != "/repo/src" {
		t.Errorf("Join = %q, want %q", got, "/repo/src")
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
}

func TestWithTrailingSep(t *testing.T) {
	if got := WithTrailingSep("/repo"); got != "/repo/" {
		t.Errorf("WithTrailingSep(\"/repo\") = %q, want %q", got, "/repo/")
	}
	if got := WithTrailingSep("/repo/"); got != "/repo/" {
		t.Errorf("WithTrailingSep(\"/repo/\") = %q, want %q", got, "/repo/")
	}
}
