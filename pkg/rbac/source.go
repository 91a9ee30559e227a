package rbac

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// RoleSource provides the role table.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

// RoleSourceFunc adapts a function to RoleSource.
type RoleSourceFunc func(ctx context.Context) (map[string]Role, error)

func (f RoleSourceFunc) Load(ctx context.Context) (map[string]Role, error) { return f(ctx) }

// NewInMemRoleSource serves a copy of roles.
func NewInMemRoleSource(roles map[string]Role) RoleSource {
	cp := make(map[string]Role, len(roles))
	for name, r := range roles {
		cp[name] = Role{
			Permissions: slices.Clone(r.Permissions),
			Inherits:    slices.Clone(r.Inherits),
		}
	}
	return RoleSourceFunc(func(context.Context) (map[string]Role, error) {
		return maps.Clone(cp), nil
	})
}

// roleFile is the YAML document shape:
//
//	roles:
//	  guest:
//	    permissions: [amenities.read]
//	  host:
//	    inherits: [guest]
//	    permissions: [amenities.*]
type roleFile struct {
	Roles map[string]Role `yaml:"roles"`
}

// ParseYAML decodes a role table from r.
func ParseYAML(r io.Reader) (map[string]Role, error) {
	var doc roleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrFailedToLoadRoles, err)
	}
	if doc.Roles == nil {
		doc.Roles = map[string]Role{}
	}
	return doc.Roles, nil
}

// NewYAMLRoleSource serves the role table encoded in data.
func NewYAMLRoleSource(data []byte) RoleSource {
	return RoleSourceFunc(func(context.Context) (map[string]Role, error) {
		return ParseYAML(bytes.NewReader(data))
	})
}

// NewFileRoleSource reads a YAML role table from path on each Load.
func NewFileRoleSource(path string) RoleSource {
	return RoleSourceFunc(func(context.Context) (map[string]Role, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadRoles, fmt.Errorf("open %s: %w", path, err))
		}
		defer f.Close()
		return ParseYAML(f)
	})
}
