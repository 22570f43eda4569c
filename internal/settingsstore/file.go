// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package settingsstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/enginehost/internal/settings"
)

// FileStore holds settings read once from a YAML document. Nested mappings
// are flattened into dotted keys; all keys are lower-cased.
type FileStore struct {
	location string
	values   map[string]string
}

var _ settings.Store = (*FileStore)(nil)

// NewFileStore reads filename. A filename of the form "env:NAME" reads the
// document from the NAME environment variable instead. A missing file gives
// an empty store.
func NewFileStore(filename string) (*FileStore, error) {
	if envVar, ok := strings.CutPrefix(filename, "env:"); ok {
		contents := os.Getenv(envVar)
		if contents == "" {
			return nil, fmt.Errorf("environment variable %s is not set", envVar)
		}
		return newFileStoreFromContents(filename, []byte(contents))
	}

	contents, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileStore{location: filename, values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read settings from file %s: %w", filename, err)
	}
	return newFileStoreFromContents(filename, contents)
}

func newFileStoreFromContents(filename string, contents []byte) (*FileStore, error) {
	var doc map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal settings from file %s: %w", filename, err)
	}

	values := map[string]string{}
	if err := flatten(values, "", doc); err != nil {
		return nil, fmt.Errorf("invalid settings in file %s: %w", filename, err)
	}
	return &FileStore{location: filename, values: values}, nil
}

func flatten(out map[string]string, prefix string, doc map[string]any) error {
	for k, v := range doc {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(out, key, val); err != nil {
				return err
			}
		case nil:
			// an explicit null leaves the key unset
		default:
			s, err := cast.ToStringE(val)
			if err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
			out[key] = s
		}
	}
	return nil
}

func (s *FileStore) Lookup(key string) (string, bool) {
	v, ok := s.values[strings.ToLower(key)]
	return v, ok
}

func (s *FileStore) Location() (string, bool) {
	return s.location, s.location != ""
}

// Len returns the number of settings in the document.
func (s *FileStore) Len() int {
	return len(s.values)
}
