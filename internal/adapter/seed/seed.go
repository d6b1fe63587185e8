// Package seed loads the users and key/value entries the run command starts from.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"user-roster/internal/adapter/kv"
	"user-roster/internal/domain/user"
)

// File is the seed data for one run.
type File struct {
	Users   []user.User
	Entries []kv.Entry
}

type userYAML struct {
	Name  string  `yaml:"name"`
	Age   uint32  `yaml:"age"`
	Email *string `yaml:"email,omitempty"`
}

type fileYAML struct {
	Users   []userYAML `yaml:"users"`
	Entries yaml.Node  `yaml:"entries"` // mapping node, decoded by hand to keep file order
}

// Default returns the built-in seed: John (30) and Jane (25) without
// email, and key1/key2.
func Default() File {
	return File{
		Users: []user.User{
			user.New("John", 30),
			user.New("Jane", 25),
		},
		Entries: kv.DefaultEntries(),
	}
}

// Load reads a seed file from fs. An empty path returns Default. Sections
// missing from the file keep their defaults.
func Load(fs afero.Fs, path string) (File, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return File{}, fmt.Errorf("seed: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Unknown fields are rejected.
func Parse(data []byte) (File, error) {
	var raw fileYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("seed: parsing YAML: %w", err)
	}

	out := Default()

	if len(raw.Users) > 0 {
		out.Users = make([]user.User, len(raw.Users))
		for i, u := range raw.Users {
			if u.Name == "" {
				return File{}, fmt.Errorf("seed: users[%d]: name is required", i)
			}
			out.Users[i] = user.User{Name: u.Name, Age: u.Age, Email: u.Email}
		}
	}

	if raw.Entries.Kind != 0 {
		entries, err := decodeEntries(&raw.Entries)
		if err != nil {
			return File{}, err
		}
		out.Entries = entries
	}

	return out, nil
}

func decodeEntries(node *yaml.Node) ([]kv.Entry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("seed: entries: line %d: expected a mapping", node.Line)
	}

	entries := make([]kv.Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("seed: entries.%s: line %d: value must be a scalar", k.Value, v.Line)
		}
		entries = append(entries, kv.Entry{Key: k.Value, Value: v.Value})
	}
	return entries, nil
}
