package db

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Category
		wantOK bool
	}{
		{name: "exact", input: "MARINS", want: CategoryMarins, wantOK: true},
		{name: "lowercase", input: "terrestres", want: CategoryTerrestres, wantOK: true},
		{name: "padded", input: "  aeriens ", want: CategoryAeriens, wantOK: true},
		{name: "hyphenated", input: "eau-douce", want: CategoryEauDouce, wantOK: true},
		{name: "spaced", input: "Eau Douce", want: CategoryEauDouce, wantOK: true},
		{name: "unknown", input: "insectes", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUserViewOmitsPassword(t *testing.T) {
	user := User{ID: 3, Name: "Alice", Email: "alice@x.com", Password: "$2a$hash", Role: RoleAdmin}
	view := user.View()

	if view.ID != 3 || view.Email != "alice@x.com" || view.Name != "Alice" {
		t.Fatalf("unexpected projection: %+v", view)
	}
	if !view.IsAdmin() {
		t.Fatal("expected admin role to be carried over")
	}
}
