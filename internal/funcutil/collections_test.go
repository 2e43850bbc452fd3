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

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMap(t *testing.T) {
	if got := Map([]int{1, 2, 3}, strconv.Itoa); !cmp.Equal([]string{"1", "2", "3"}, got) {
		t.Errorf("unexpected result %v", got)
	}
	if got := Map(nil, strconv.Itoa); got != nil {
		t.Errorf("mapping an empty slice should return nil, got %v", got)
	}
	a := []string{" a", "b "}
	MapInPlace(a, strings.TrimSpace)
	if diff := cmp.Diff([]string{"a", "b"}, a); diff != "" {
		t.Errorf("MapInPlace mismatch (-want +got):\n%s", diff)
	}
}

func TestReverse(t *testing.T) {
	for _, tc := range []struct {
		in   []int
		want []int
	}{
		{nil, nil},
		{[]int{1}, []int{1}},
		{[]int{1, 2}, []int{2, 1}},
		{[]int{1, 2, 3}, []int{3, 2, 1}},
	} {
		Reverse(tc.in)
		if diff := cmp.Diff(tc.want, tc.in); diff != "" {
			t.Errorf("Reverse mismatch (-want +got):\n%s", diff)
		}
	}
}
