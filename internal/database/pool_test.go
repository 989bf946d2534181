package database

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgres://user:pw@localhost:5432/shelfstock?sslmode=disable", "shelfstock"},
		{"postgresql://localhost/inventory", "inventory"},
		{"host=localhost dbname=shelfstock", ""},
		{"postgres://localhost", ""},
	}
	for _, tt := range tests {
		if got := Name(tt.url); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
