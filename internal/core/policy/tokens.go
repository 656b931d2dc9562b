package policy

import (
	"strings"
)

var tokenPrefixes = []string{"currentUser.", "$context.user."}

// tokenAttr returns the user attribute path named by a context token.
func tokenAttr(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(s, p) && len(s) > len(p) {
			return s[len(p):], true
		}
	}
	return "", false
}

// IsToken reports whether v is a context token.
func IsToken(v any) bool {
	_, ok := tokenAttr(v)
	return ok
}

// ResolveValue substitutes a context token with the matching user value.
// Non-token values are returned unchanged. A token that cannot be resolved
// yields nil; Resolve turns such a condition into one that matches no row.
func ResolveValue(v any, user *User) any {
	attr, ok := tokenAttr(v)
	if !ok {
		return v
	}
	if user == nil {
		return nil
	}
	switch attr {
	case "id":
		return user.ID
	case "department":
		return user.Department
	case "roles":
		roles := make([]string, len(user.Roles))
		copy(roles, user.Roles)
		return roles
	}
	return lookupPath(user.Attributes, attr)
}

// lookupPath walks nested maps along a dotted path.
func lookupPath(m map[string]any, path string) any {
	if m == nil {
		return nil
	}
	if v, ok := m[path]; ok {
		return v
	}
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil
	}
	next, ok := m[head].(map[string]any)
	if !ok {
		return nil
	}
	return lookupPath(next, rest)
}
