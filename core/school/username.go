package school

import (
	"strings"
	"unicode/utf8"
)

var rolePrefixes = map[Role]string{
	RoleAdmin:   "ADM",
	RoleFaculty: "FAC",
	RoleStudent: "STU",
	RoleParent:  "PAR",
}

// GenerateUsername builds a portal username from the role, institution code
// and the user's initials, e.g. "FACVOID01JS" for faculty John Smith at
// VOID01. Admin usernames carry no initials: "ADMVOID01VOID". An optional
// uniqueIdentifier suffix disambiguates colliding initials.
func GenerateUsername(role Role, institutionCode, firstName, lastName, uniqueIdentifier string) string {
	var b strings.Builder
	b.WriteString(rolePrefixes[role])
	b.WriteString(institutionCode)

	if role == RoleAdmin {
		b.WriteString("VOID")
	} else {
		b.WriteString(initial(firstName))
		b.WriteString(initial(lastName))
		b.WriteString(uniqueIdentifier)
	}
	return strings.ToUpper(b.String())
}

func initial(name string) string {
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}
