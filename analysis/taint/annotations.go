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
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"golang.org/x/exp/slices"
)

// Threat tags attached to Include operations
const (
	// ThreatResult marks an include whose target was analyzed; its taint is the result taint of the included file
	ThreatResult = "result"
	// ThreatFile marks an include whose target could not be resolved; its taint is the taint of the path
	ThreatFile = "file"
)

// An Annotation is the information the analysis attaches to an operation
type Annotation struct {
	// Taint is the taint of the value produced by the operation. Only meaningful if HasTaint.
	Taint Taint
	// HasTaint is false when the operation was visited without being given a taint, e.g. an include of a missing
	// file
	HasTaint bool
	// Threats is the sorted set of threat tags
	Threats []string
	// Type is the class name of instantiated objects, or ""
	Type string
}

// Annotations is a side table from operations to their annotations. Every visit of an operation overwrites the
// annotation written by the previous visit.
type Annotations struct {
	m map[lang.Operation]*Annotation
}

// NewAnnotations returns an empty table
func NewAnnotations() *Annotations {
	return &Annotations{m: map[lang.Operation]*Annotation{}}
}

func (a *Annotations) get(op lang.Operation) *Annotation {
	x, ok := a.m[op]
	if !ok {
		x = &Annotation{}
		a.m[op] = x
	}
	return x
}

// SetTaint sets the taint of op
func (a *Annotations) SetTaint(op lang.Operation, t Taint) {
	x := a.get(op)
	x.Taint = t
	x.HasTaint = true
}

// SetThreats sets the threat tags of op
func (a *Annotations) SetThreats(op lang.Operation, threats ...string) {
	x := a.get(op)
	x.Threats = slices.Clone(threats)
	slices.Sort(x.Threats)
	x.Threats = slices.Compact(x.Threats)
}

// SetType sets the type annotation of op
func (a *Annotations) SetType(op lang.Operation, typ string) {
	a.get(op).Type = typ
}

// Get returns the annotation of op, if op has been visited
func (a *Annotations) Get(op lang.Operation) (Annotation, bool) {
	x, ok := a.m[op]
	if !ok {
		return Annotation{}, false
	}
	return *x, true
}

// Taint returns the taint of op, if op has one
func (a *Annotations) Taint(op lang.Operation) (Taint, bool) {
	x, ok := a.m[op]
	if !ok || !x.HasTaint {
		return Unknown, false
	}
	return x.Taint, true
}

// Threats returns the threat tags of op
func (a *Annotations) Threats(op lang.Operation) []string {
	if x, ok := a.m[op]; ok {
		return x.Threats
	}
	return nil
}

// Type returns the type annotation of op
func (a *Annotations) Type(op lang.Operation) (string, bool) {
	x, ok := a.m[op]
	if !ok || x.Type == "" {
		return "", false
	}
	return x.Type, true
}

// Len returns the number of annotated operations
func (a *Annotations) Len() int {
	return len(a.m)
}
