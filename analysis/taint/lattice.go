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

package taint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Taint classifies whether a value may carry attacker-influenced content. The values are totally ordered:
// Untainted < Unknown < Tainted.
type Taint int

const (
	// Untainted values are built only from constants and sanitized data
	Untainted Taint = iota
	// Unknown values may or may not carry attacker data. Reading an unbound variable yields Unknown.
	Unknown
	// Tainted values may carry attacker data
	Tainted
)

var taintNames = [...]string{"untainted", "unknown", "tainted"}

func (t Taint) String() string {
	if t >= Untainted && t <= Tainted {
		return taintNames[t]
	}
	return fmt.Sprintf("taint(%d)", int(t))
}

// ParseTaint returns the taint named s
func ParseTaint(s string) (Taint, error) {
	for i, n := range taintNames {
		if n == s {
			return Taint(i), nil
		}
	}
	return Unknown, fmt.Errorf("invalid taint value %q", s)
}

// Join returns the least upper bound of a and b, i.e. the more dangerous of the two.
func Join(a Taint, b Taint) Taint {
	if a > b {
		return a
	}
	return b
}

// JoinAll returns the join of all ts. The join of no value is Untainted.
func JoinAll(ts ...Taint) Taint {
	res := Untainted
	for _, t := range ts {
		res = Join(res, t)
	}
	return res
}

// MarshalYAML marshals the taint as its name
func (t Taint) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML reads a taint name
func (t *Taint) UnmarshalYAML(value *yaml.Node) error {
	x, err := ParseTaint(value.Value)
	if err != nil {
		return err
	}
	*t = x
	return nil
}
