package builtin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLoopHeader(t *testing.T) {
	tests := []struct {
		header string
		want   Loop
		ok     bool
	}{
		{"item of list", Loop{Index: "index", Item: "item", Source: "list"}, true},
		{"myIndex, item of list", Loop{Index: "myIndex", Item: "item", Source: "list"}, true},
		{"i, user: User of users", Loop{Index: "i", Item: "user", Type: "User", Source: "users"}, true},
		{"row of ctrl.rows | stream", Loop{Index: "index", Item: "row", Source: "ctrl.rows | stream"}, true},
		{" , item of list", Loop{Index: "index", Item: "item", Source: "list"}, true},
		{"item", Loop{}, false},
		{"item of ", Loop{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ParseLoopHeader(tt.header)
			if ok != tt.ok {
				t.Fatalf("ParseLoopHeader(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLoopHeader(%q) mismatch (-want +got):\n%s", tt.header, diff)
			}
		})
	}
}

func TestLoopDeclaration(t *testing.T) {
	tests := []struct {
		loop Loop
		want string
	}{
		{Loop{Index: "index", Item: "item", Source: "items"}, "final item = items[index];"},
		{Loop{Index: "i", Item: "user", Type: "User", Source: "users"}, "final User user = users[i];"},
	}
	for _, tt := range tests {
		if got := tt.loop.declaration(); got != tt.want {
			t.Errorf("declaration() = %q, want %q", got, tt.want)
		}
	}
}

func TestLooseLoop(t *testing.T) {
	want := Loop{Index: "index", Item: "item", Source: "items"}
	if diff := cmp.Diff(want, looseLoop(" items ")); diff != "" {
		t.Errorf("looseLoop() mismatch (-want +got):\n%s", diff)
	}
}
