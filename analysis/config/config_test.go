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
	"embed"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

//go:embed testdata
var testfsys embed.FS

func checkEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := compileRegexes(cid2)
	if !cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should be equal modulo empty fields to %v", cid1, cid2)
	}
}

func checkNotEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := compileRegexes(cid2)
	if cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should not be equal modulo empty fields to %v", cid1, cid2)
	}
}

func TestCodeIdentifier_equalOnNonEmptyFields_selfEquals(t *testing.T) {
	cid1 := CodeIdentifier{Function: "basename", Class: "Path"}
	checkEqualOnNonEmptyFields(t, cid1, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_emptyMatchesAny(t *testing.T) {
	cid1 := CodeIdentifier{Function: "a", Class: "b", Method: "c", Variable: "d"}
	cid2 := CodeIdentifier{Function: "de", Variable: "ef"}
	cidEmpty := CodeIdentifier{}
	checkEqualOnNonEmptyFields(t, cid1, cidEmpty)
	checkEqualOnNonEmptyFields(t, cid2, cidEmpty)
}

func TestCodeIdentifier_equalOnNonEmptyFields_oneDiff(t *testing.T) {
	cid1 := CodeIdentifier{Class: "a", Method: "b"}
	cid2 := CodeIdentifier{Class: "a"}
	checkEqualOnNonEmptyFields(t, cid1, cid2)
	checkNotEqualOnNonEmptyFields(t, cid2, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_regexes(t *testing.T) {
	cid1 := CodeIdentifier{Function: "system"}
	cid1bis := CodeIdentifier{Function: "shell_exec"}
	cid2 := CodeIdentifier{Function: "system|shell_exec"}
	checkEqualOnNonEmptyFields(t, cid1, cid2)
	checkEqualOnNonEmptyFields(t, cid1bis, cid2)
	// anchored: a prefix is not a match
	checkNotEqualOnNonEmptyFields(t, CodeIdentifier{Function: "systems"}, cid2)
}

func TestCodeIdentifier_equalOnNonEmptyFields_caseSensitivity(t *testing.T) {
	checkEqualOnNonEmptyFields(t, CodeIdentifier{Function: "BaseName"}, CodeIdentifier{Function: "basename"})
	checkNotEqualOnNonEmptyFields(t, CodeIdentifier{Variable: "_get"}, CodeIdentifier{Variable: "_GET"})
}

func TestCodeIdentifier_matchesContext(t *testing.T) {
	tests := []struct {
		cid     CodeIdentifier
		context string
		want    bool
	}{
		{CodeIdentifier{Function: "f"}, "file", true},
		{CodeIdentifier{Function: "f", Context: "file"}, "file", true},
		{CodeIdentifier{Function: "f", Context: "FILE"}, "file", true},
		{CodeIdentifier{Function: "f", Context: "html"}, "file", false},
		{CodeIdentifier{Function: "f", Context: "html"}, "", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.cid.Context, tt.context), func(t *testing.T) {
			if got := tt.cid.matchesContext(tt.context); got != tt.want {
				t.Errorf("matchesContext() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func loadFromTestDir(filename string) (string, *Config, error) {
	filename = filepath.Join("testdata", filename)
	b, err := testfsys.ReadFile(filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %v: %v", filename, err)
	}
	config, err := LoadFromBytes(filename, b)
	if err != nil {
		return filename, nil, fmt.Errorf("failed to load file %v: %v", filename, err)
	}
	return filename, config, err
}

func TestNewDefault(t *testing.T) {
	c := NewDefault()
	if c.MaxDepth != DefaultMaxDepth {
		t.Errorf("Default for MaxDepth should be %d, got %d", DefaultMaxDepth, c.MaxDepth)
	}
	if c.LogLevel != int(InfoLevel) {
		t.Errorf("Default log level should be info")
	}
	if len(c.TaintTrackingProblems) != 1 {
		t.Fatalf("Default config should have one taint tracking problem")
	}
	if c.SingleBranchConditionals || c.ReportUnknown {
		t.Errorf("Default config should walk both branches and not report unknown values")
	}
}

func TestDefaultTaintSpec(t *testing.T) {
	c := NewDefault()
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"_GET is a source", c.IsSomeSource(CodeIdentifier{Variable: "_GET"}), true},
		{"_COOKIE is a source", c.IsSomeSource(CodeIdentifier{Variable: "_COOKIE"}), true},
		{"local is not a source", c.IsSomeSource(CodeIdentifier{Variable: "page"}), false},
		{"getenv is a source", c.IsSomeSource(CodeIdentifier{Function: "GETENV"}), true},
		{"basename sanitizes files", c.IsSomeSanitizer(CodeIdentifier{Function: "basename"}, ContextFile), true},
		{"basename does not sanitize html", c.IsSomeSanitizer(CodeIdentifier{Function: "basename"}, ContextHTML),
			false},
		{"intval sanitizes everything", c.IsSomeSanitizer(CodeIdentifier{Function: "intval"}, ContextShell), true},
		{"basename is a sanitizer", c.IsSomeSanitizer(CodeIdentifier{Function: "basename"}, ""), true},
		{"strlen is not a sanitizer", c.IsSomeSanitizer(CodeIdentifier{Function: "strlen"}, ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got = %v, want %v", tt.got, tt.want)
			}
		})
	}

	sink, ok := c.SomeSink(CodeIdentifier{Function: "shell_exec"})
	if !ok || sink.Context != ContextShell {
		t.Errorf("shell_exec should be a shell sink, got %v, %v", sink, ok)
	}
	if _, ok := c.SomeSink(CodeIdentifier{Function: "strtolower"}); ok {
		t.Errorf("strtolower should not be a sink")
	}
}

func TestLoadBadFormatFileReturnsError(t *testing.T) {
	_, config, err := loadFromTestDir("bad_format.yaml")
	if config != nil || err == nil {
		t.Errorf("Expected error and nil value when trying to load a badly formatted file.")
	}
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "does-not-exist.yaml"))
	if c != nil || err == nil {
		t.Errorf("Expected error and nil value when trying to load non existent file.")
	}
}

func TestLoadMisc(t *testing.T) {
	_, config, err := loadFromTestDir("config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := []TaintSpec{{
		Sources:    []CodeIdentifier{{Variable: "_GET"}},
		Sanitizers: []CodeIdentifier{{Function: "clean_path", Context: ContextFile}},
		Sinks:      []CodeIdentifier{{Function: "run_query", Context: ContextSQL}},
	}}
	if diff := cmp.Diff(want, config.TaintTrackingProblems,
		cmpopts.IgnoreUnexported(CodeIdentifier{})); diff != "" {
		t.Errorf("taint tracking problems mismatch (-want +got):\n%s", diff)
	}
	if config.LogLevel != int(InfoLevel) {
		t.Errorf("log level should default to info")
	}
	if !config.IsSomeSanitizer(CodeIdentifier{Function: "clean_path"}, ContextFile) {
		t.Errorf("clean_path should be a file sanitizer")
	}
	// problems in the file replace the default problem
	if config.IsSomeSource(CodeIdentifier{Variable: "_POST"}) {
		t.Errorf("_POST should not be a source when the config file declares its own sources")
	}
}

func TestLoadEmptyProblemsUsesDefault(t *testing.T) {
	_, config, err := loadFromTestDir("empty-problems.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if config.LogLevel != int(WarnLevel) {
		t.Errorf("log level should be warn")
	}
	if !config.IsSomeSource(CodeIdentifier{Variable: "_REQUEST"}) {
		t.Errorf("config without problems should use the default sources")
	}
}

func TestLoadFullConfig(t *testing.T) {
	fileName, config, err := loadFromTestDir("full-config.yaml")
	if config == nil || err != nil {
		t.Fatalf("Could not load %s: %v", fileName, err)
	}
	if config.LogLevel != int(TraceLevel) {
		t.Error("full config should have set trace")
	}
	if !config.Verbose() {
		t.Error("full config should be verbose")
	}
	if config.MaxDepth != 42 {
		t.Error("full config should set max-depth to 42")
	}
	if config.MaxMemoEntries != 1000 {
		t.Error("full config should set max-memo-entries to 1000")
	}
	if !config.ReportUnknown || !config.SingleBranchConditionals || !config.SilenceWarn {
		t.Error("full config should set report-unknown, single-branch-conditionals and silence-warn")
	}
	wantPaths := []string{filepath.Join("testdata", "lib"), "/usr/share/php"}
	if diff := cmp.Diff(wantPaths, config.IncludePaths); diff != "" {
		t.Errorf("include paths mismatch (-want +got):\n%s", diff)
	}
	if len(config.TaintTrackingProblems) != 1 ||
		len(config.TaintTrackingProblems[0].Sinks) != 2 ||
		len(config.TaintTrackingProblems[0].Sanitizers) != 2 ||
		len(config.TaintTrackingProblems[0].Sources) != 2 {
		t.Error("full config should have two elements in each of sinks, sanitizers and sources")
	}
	if !config.IsSomeSource(CodeIdentifier{Variable: "_POST"}) {
		t.Error("_POST should match the regex source")
	}
	if sink, ok := config.SomeSink(CodeIdentifier{Class: "pdo", Method: "Query"}); !ok || sink.Context != ContextSQL {
		t.Error("PDO::query should be a sql sink")
	}
}

func TestExceedsMaxDepth(t *testing.T) {
	tests := []struct {
		maxDepth int
		depth    int
		want     bool
	}{
		{0, 1000, false},
		{-1, 1000, false},
		{3, 3, false},
		{3, 4, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.maxDepth, tt.depth), func(t *testing.T) {
			c := NewDefault()
			c.MaxDepth = tt.maxDepth
			if got := c.ExceedsMaxDepth(tt.depth); got != tt.want {
				t.Errorf("ExceedsMaxDepth() got = %v, want %v", got, tt.want)
			}
		})
	}
}
