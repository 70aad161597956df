// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package program

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format identifies a program-graph serialization format
type Format string

const (
	// FormatJSON is the textual graph format (.json)
	FormatJSON Format = "json"
	// FormatMsgpack is the binary graph format (.mpk)
	FormatMsgpack Format = "msgpack"
)

// document is the on-disk shape of a program graph in both formats
type document struct {
	Nodes []Node `json:"nodes" msgpack:"nodes"`
	Edges []Edge `json:"edges" msgpack:"edges"`
}

// FormatForFile returns the graph format matching the file extension of filename.
// Recognized extensions are .json and .mpk.
func FormatForFile(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return FormatJSON, nil
	case ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unrecognized graph file extension %q (want .json or .mpk)", ext)
	}
}

// Decode reads a program graph in the given format from r
func Decode(r io.Reader, format Format) (*Graph, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("could not decode json graph: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("could not decode msgpack graph: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
	return NewGraph(doc.Nodes, doc.Edges), nil
}

// Encode writes the graph to w in the given format
func Encode(w io.Writer, g *Graph, format Format) error {
	doc := document{Nodes: g.Nodes(), Edges: g.Edges()}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("could not encode json graph: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("could not encode msgpack graph: %w", err)
		}
	default:
		return fmt.Errorf("unknown graph format %q", format)
	}
	return nil
}

// Load reads a program graph from a file, choosing the format from the file extension
func Load(filename string) (*Graph, error) {
	format, err := FormatForFile(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open graph file: %w", err)
	}
	defer f.Close()
	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", filename, err)
	}
	return g, nil
}

// Write writes a program graph to a file, choosing the format from the file extension
func Write(filename string, g *Graph) error {
	format, err := FormatForFile(filename)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create graph file: %w", err)
	}
	defer f.Close()
	return Encode(f, g, format)
}
