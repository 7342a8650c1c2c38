package model

import (
	"strings"
	"unicode/utf8"
)

// Role is one of exactly two canonical strings, spelled the way the lending
// API spells them.
type Role string

const (
	RoleStudent Role = "Estudiante"
	RoleAdmin   Role = "Admin"
)

// NormalizeRole canonicalizes a free-text role: first rune upper, rest
// lower, matched against the two known roles. Anything else, including the
// empty string, is a student. Idempotent.
func NormalizeRole(raw string) Role {
	if raw == "" {
		return RoleStudent
	}
	_, n := utf8.DecodeRuneInString(raw)
	normalized := strings.ToUpper(raw[:n]) + strings.ToLower(raw[n:])
	if normalized == string(RoleAdmin) || normalized == string(RoleStudent) {
		return Role(normalized)
	}
	return RoleStudent
}
