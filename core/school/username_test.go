package school

import (
	"testing"
	"unicode/utf8"
)

func TestGenerateUsername(t *testing.T) {
	tests := []struct {
		name             string
		role             Role
		code             string
		first, last      string
		uniqueIdentifier string
		want             string
	}{
		{name: "admin", role: RoleAdmin, code: "VOID01", want: "ADMVOID01VOID"},
		{name: "admin ignores names", role: RoleAdmin, code: "VOID01", first: "John", last: "Smith", want: "ADMVOID01VOID"},
		{name: "faculty", role: RoleFaculty, code: "VOID01", first: "John", last: "Smith", want: "FACVOID01JS"},
		{name: "student", role: RoleStudent, code: "VOID01", first: "Alex", last: "Johnson", want: "STUVOID01AJ"},
		{name: "parent", role: RoleParent, code: "VOID01", first: "Robert", last: "Johnson", want: "PARVOID01RJ"},
		{name: "suffix", role: RoleFaculty, code: "VOID01", first: "Jane", last: "Smith", uniqueIdentifier: "001", want: "FACVOID01JS001"},
		{name: "lowercase input", role: RoleStudent, code: "void01", first: "alex", last: "johnson", want: "STUVOID01AJ"},
		{name: "missing last name", role: RoleFaculty, code: "VOID01", first: "John", want: "FACVOID01J"},
		{name: "multi-byte initials", role: RoleFaculty, code: "VOID01", first: "Émile", last: "dubois", want: "FACVOID01ÉD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateUsername(tt.role, tt.code, tt.first, tt.last, tt.uniqueIdentifier)
			if got != tt.want {
				t.Errorf("GenerateUsername() = %s, want %s", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("GenerateUsername() = %q is not valid UTF-8", got)
			}
		})
	}
}
