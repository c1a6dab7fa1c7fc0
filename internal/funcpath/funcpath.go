package funcpath

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins path segments. No identifier may contain it.
const Separator = "/"

// Ext is the fixed suffix appended to every canonical path.
const Ext = ".fn"

// functionsDir is the sub-directory that holds a component's named functions.
// Phase entry points live at the component root instead.
const functionsDir = "functions"

// Phase entry point names, one per lifecycle phase and role.
const (
	EntryPreInit        = "init_pre"
	EntryPostInit       = "init_post"
	EntryPostInitServer = "init_post_server"
	EntryPostInitClient = "init_post_client"
)

// ErrInvalidIdentifier reports a path component that is empty or contains
// the separator character.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Path is the structured representation of a canonical function identifier.
// The zero value is not a valid path; use Resolve, Entry, or Parse.
type Path struct {
	Namespace string
	Component string
	Name      string

	// entry marks a phase entry point, which sits at the component root
	// rather than under the functions directory.
	entry bool
}

// Resolve builds the path of a named function inside a component.
func Resolve(namespace, component, name string) (Path, error) {
	if err := checkIdentifiers(namespace, component, name); err != nil {
		return Path{}, err
	}
	return Path{Namespace: namespace, Component: component, Name: name}, nil
}

// Entry builds the path of a component's phase entry point. The entry name
// should be one of the Entry* constants, but any valid identifier is
// accepted so providers can serve custom entry points. The functions
// directory name is reserved: allowing it as an entry would make the
// canonical string form ambiguous.
func Entry(namespace, component, entry string) (Path, error) {
	if err := checkIdentifiers(namespace, component, entry); err != nil {
		return Path{}, err
	}
	if entry == functionsDir {
		return Path{}, fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, functionsDir)
	}
	return Path{Namespace: namespace, Component: component, Name: entry, entry: true}, nil
}

// IsEntry reports whether the path names a phase entry point.
func (p Path) IsEntry() bool { return p.entry }

// String serializes the path into its canonical string form. Two paths built
// from identical arguments serialize identically.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Namespace)
	sb.WriteString(Separator)
	sb.WriteString(p.Component)
	sb.WriteString(Separator)
	if !p.entry {
		sb.WriteString(functionsDir)
		sb.WriteString(Separator)
	}
	sb.WriteString(p.Name)
	sb.WriteString(Ext)
	return sb.String()
}

func checkIdentifiers(parts ...string) error {
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("%w: empty path component", ErrInvalidIdentifier)
		}
		if strings.Contains(part, Separator) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidIdentifier, part, Separator)
		}
	}
	return nil
}
