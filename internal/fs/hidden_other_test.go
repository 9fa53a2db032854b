//go:build !windows

package fs

import "testing"

func TestIsHiddenDotFiles(t *testing.T) {
	if !IsHidden("/journal/.draft", ".draft") {
		t.Fatal(".draft should be hidden")
	}
	if IsHidden("/journal/draft", "draft") {
		t.Fatal("draft should be visible")
	}
	if ShouldHideFromListing("/journal/.draft", ".draft") {
		t.Fatal("nothing is excluded from listings outside Windows")
	}
}
