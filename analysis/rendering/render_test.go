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

package rendering

import (
	"bytes"
	"strings"
	"testing"

	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/program"
)

func testGraph() *program.Graph {
	return program.NewGraph(
		[]program.Node{{ID: "src"}, {ID: "mid"}, {ID: "snk"}, {ID: "other"}},
		[]program.Edge{
			{From: "src", To: "mid", Kind: program.EdgeDirect},
			{From: "mid", To: "snk", Kind: program.EdgeDirect},
			{From: "other", To: "mid", Kind: program.EdgeDirect},
		})
}

func TestMarshalDOT(t *testing.T) {
	b, err := MarshalDOT(testGraph(), "g", []dataflow.Path{{"src", "mid", "snk"}})
	if err != nil {
		t.Fatalf("marshalling: %v", err)
	}
	out := string(b)
	for _, want := range []string{"digraph g", "src -> mid", "mid -> snk", "other -> mid"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
	// highlighted path styling
	if !strings.Contains(out, `color="green"`) || !strings.Contains(out, `color="red"`) {
		t.Errorf("source/sink styling missing:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "other") && !strings.Contains(line, "->") &&
			strings.Contains(line, "color") {
			t.Errorf("node off the highlighted paths should carry no attributes: %s", line)
		}
	}
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDOT(&buf, testGraph(), "g", nil); err != nil {
		t.Fatalf("writing: %v", err)
	}
	if !strings.Contains(buf.String(), "digraph g") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
