package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	tests := []struct {
		name     string
		hash     []byte
		password string
		want     bool
		wantErr  bool
	}{
		{"match", hash, "s3cret", true, false},
		{"mismatch", hash, "guess", false, false},
		{"empty password", hash, "", false, false},
		{"corrupt hash", []byte("not-a-hash"), "s3cret", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkPassword(tt.hash, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("checkPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewStore_ClampsCost(t *testing.T) {
	s, err := NewStore(nil, 1)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if s.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", s.cost, bcrypt.DefaultCost)
	}
}
