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

package config

import (
	"regexp"
	"strings"
)

// A CodeIdentifier identifies a code element that is a source, sink, sanitizer, etc..
// A code identifier can be identified from its function, class, method or variable, or any combination of those.
// Context restricts sanitizers and sinks to one usage (e.g. "file" for file inclusion, "html" for output).
type CodeIdentifier struct {
	Function string `yaml:"function,omitempty"`
	Class    string `yaml:"class,omitempty"`
	Method   string `yaml:"method,omitempty"`
	Variable string `yaml:"variable,omitempty"`
	Context  string `yaml:"context,omitempty"`
	// This will not be part of the yaml config
	computedRegexs *CodeIdentifierRegex
}

// CodeIdentifierRegex holds the compiled regexes of a code identifier.
type CodeIdentifierRegex struct {
	functionRegex *regexp.Regexp
	classRegex    *regexp.Regexp
	methodRegex   *regexp.Regexp
	variableRegex *regexp.Regexp
}

// compileField anchors the field and makes it case-insensitive, since PHP function, class and method names are.
func compileField(s string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + s + ")$")
}

// compileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none.
// @ensures cid.computedRegexs == nil || cid.computedRegexs.(*) != nil
func compileRegexes(cid CodeIdentifier) CodeIdentifier {
	functionRegex, err := compileField(cid.Function)
	if err != nil {
		return cid
	}
	classRegex, err := compileField(cid.Class)
	if err != nil {
		return cid
	}
	methodRegex, err := compileField(cid.Method)
	if err != nil {
		return cid
	}
	variableRegex, err := regexp.Compile("^(?:" + cid.Variable + ")$")
	if err != nil {
		return cid
	}
	cid.computedRegexs = &CodeIdentifierRegex{
		functionRegex: functionRegex,
		classRegex:    classRegex,
		methodRegex:   methodRegex,
		variableRegex: variableRegex,
	}
	return cid
}

// equalOnNonEmptyFields returns true if each of the receiver's fields are either matched by the corresponding
// argument's field, or the argument's field is empty. The context is not compared.
func (cid *CodeIdentifier) equalOnNonEmptyFields(cidRef CodeIdentifier) bool {
	if cidRef.computedRegexs != nil {
		return (cidRef.Function == "" || cidRef.computedRegexs.functionRegex.MatchString(cid.Function)) &&
			(cidRef.Class == "" || cidRef.computedRegexs.classRegex.MatchString(cid.Class)) &&
			(cidRef.Method == "" || cidRef.computedRegexs.methodRegex.MatchString(cid.Method)) &&
			(cidRef.Variable == "" || cidRef.computedRegexs.variableRegex.MatchString(cid.Variable))
	}
	return (cidRef.Function == "" || strings.EqualFold(cid.Function, cidRef.Function)) &&
		(cidRef.Class == "" || strings.EqualFold(cid.Class, cidRef.Class)) &&
		(cidRef.Method == "" || strings.EqualFold(cid.Method, cidRef.Method)) &&
		(cidRef.Variable == "" || cid.Variable == cidRef.Variable)
}

// isEmpty returns true when the identifier does not name any code element.
func (cid CodeIdentifier) isEmpty() bool {
	return cid.Function == "" && cid.Class == "" && cid.Method == "" && cid.Variable == ""
}

// matchesContext returns true if the identifier applies to context. An identifier without context applies to all.
func (cid CodeIdentifier) matchesContext(context string) bool {
	return cid.Context == "" || context == "" || strings.EqualFold(cid.Context, context)
}

// findCid returns the first x in a such that f(x) is true.
func findCid(a []CodeIdentifier, f func(identifier CodeIdentifier) bool) (CodeIdentifier, bool) {
	for _, x := range a {
		if f(x) {
			return x, true
		}
	}
	return CodeIdentifier{}, false
}
