package core

import "testing"

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"milk", "MILK"},
		{"  whole milk  ", "WHOLE MILK"},
		{"pão de forma", "PÃO DE FORMA"},
		{"pa\u0303o", "PÃO"}, // decomposed input composes to the same name
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := CanonicalName(tt.in); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeaderMentionsSection(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   bool
	}{
		{"portuguese", []string{"Seção", "Tipo", "Produto"}, true},
		{"no accents", []string{"Secao", "Tipo"}, true},
		{"upper case", []string{"SEÇÃO"}, true},
		{"decomposed", []string{"Sec\u0327a\u0303o"}, true},
		{"english", []string{"Section", "Type", "Product"}, true},
		{"padded", []string{"  section  "}, true},
		{"missing", []string{"Tipo", "Produto", "Validade"}, false},
		{"data row", []string{"Bakery", "Bread", "Loaf", "2024-05-01"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerMentionsSection(tt.header); got != tt.want {
				t.Errorf("headerMentionsSection(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestHasLineBreak(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Bebidas", false},
		{"Snacks, Sweet", false},
		{`bar "xl"`, false},
		{"two\nlines", true},
		{"carriage\rreturn", true},
		{"line\u2028separator", true},
	}

	for _, tt := range tests {
		if got := hasLineBreak(tt.name); got != tt.want {
			t.Errorf("hasLineBreak(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
