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

package funcutil

import "testing"

func TestMapInPlace(t *testing.T) {
	a := []int{1, 2, 3}
	MapInPlace(a, func(x int) int { return x * 2 })
	if a[0] != 2 || a[1] != 4 || a[2] != 6 {
		t.Errorf("unexpected result: %v", a)
	}
}

func TestMap(t *testing.T) {
	b := Map([]int{1, 2}, func(x int) int { return x + 1 })
	if len(b) != 2 || b[0] != 2 || b[1] != 3 {
		t.Errorf("unexpected result: %v", b)
	}
}

func TestExistsContains(t *testing.T) {
	a := []string{"x", "y"}
	if !Exists(a, func(s string) bool { return s == "y" }) {
		t.Errorf("Exists failed to find y")
	}
	if Contains(a, "z") {
		t.Errorf("Contains found z")
	}
}

func TestFindMap(t *testing.T) {
	r := FindMap([]int{1, 2, 3},
		func(x int) int { return x * 10 },
		func(x int) bool { return x > 15 })
	if !r.IsSome() || r.Value() != 20 {
		t.Errorf("unexpected result: %v", r)
	}
	none := FindMap([]int{1},
		func(x int) int { return x },
		func(x int) bool { return x > 5 })
	if none.IsSome() {
		t.Errorf("expected none")
	}
}

func TestReverse(t *testing.T) {
	a := []int{1, 2, 3, 4}
	Reverse(a)
	if a[0] != 4 || a[3] != 1 {
		t.Errorf("unexpected result: %v", a)
	}
}
