package api

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"selfeval/internal/backend"
)

// Contact links a host user to the backend's view of them.
type Contact struct {
	HostUserID          int64 `yaml:"host_user_id"`
	backend.UserContext `yaml:",inline"`
}

// Directory is the set of contacts the development backend knows.
type Directory struct {
	Contacts []Contact `yaml:"contacts"`
}

// Lookup returns the contact linked to hostUserID.
func (d Directory) Lookup(hostUserID int64) (backend.UserContext, bool) {
	for _, contact := range d.Contacts {
		if contact.HostUserID == hostUserID {
			return contact.UserContext, true
		}
	}
	return backend.UserContext{}, false
}

// ParseDirectory decodes a single YAML directory document.
func ParseDirectory(data []byte) (Directory, error) {
	var dir Directory
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&dir); err != nil {
		if err == io.EOF {
			return Directory{}, nil
		}
		return Directory{}, fmt.Errorf("parse directory: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Directory{}, fmt.Errorf("parse directory: multiple YAML documents are not supported")
		}
		return Directory{}, fmt.Errorf("parse directory: %w", err)
	}
	seen := map[int64]bool{}
	for i, contact := range dir.Contacts {
		if contact.HostUserID <= 0 {
			return Directory{}, fmt.Errorf("parse directory: contacts[%d]: host_user_id must be positive", i)
		}
		if seen[contact.HostUserID] {
			return Directory{}, fmt.Errorf("parse directory: contacts[%d]: duplicate host_user_id %d", i, contact.HostUserID)
		}
		seen[contact.HostUserID] = true
		if dir.Contacts[i].Locations == nil {
			dir.Contacts[i].Locations = []backend.Location{}
		}
	}
	return dir, nil
}

// LoadDirectory reads and parses a directory file.
func LoadDirectory(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Directory{}, fmt.Errorf("read directory: %w", err)
	}
	return ParseDirectory(data)
}
