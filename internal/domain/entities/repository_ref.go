package entities

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a GitHub repository.
type RepositoryRef struct {
	Owner string
	Name  string
}

// ParseRepositoryRef parses an "owner/repo" identifier.
func ParseRepositoryRef(raw string) (RepositoryRef, error) {
	owner, name, found := strings.Cut(strings.Trim(raw, "/ "), "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepositoryRef{}, fmt.Errorf("invalid repository %q, expected owner/repo", raw)
	}
	return RepositoryRef{Owner: owner, Name: name}, nil
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}
