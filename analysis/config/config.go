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
	"fmt"
	"os"
	"path"

	"github.com/awslabs/ar-php-tools/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains lists of sanitizers, sinks and sources, and the options of the analyses.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// TaintTrackingProblems lists the taint tracking specifications
	TaintTrackingProblems []TaintSpec `yaml:"taint-tracking-problems"`
}

// TaintSpec contains code identifiers that identify a specific taint tracking problem
type TaintSpec struct {
	// Sources is the list of sources for the taint analysis. Variables name superglobal arrays, functions and
	// methods name calls returning attacker-controlled data.
	Sources []CodeIdentifier `yaml:"sources"`

	// Sanitizers is the list of sanitizers for the taint analysis. A sanitizer with a context only sanitizes data
	// for that usage.
	Sanitizers []CodeIdentifier `yaml:"sanitizers"`

	// Sinks is the list of sinks for the taint analysis. The context of a sink is the usage that makes tainted data
	// dangerous at that sink.
	Sinks []CodeIdentifier `yaml:"sinks"`
}

// Options are the settings of the analysis.
type Options struct {
	// ReportsDir is the directory where the reports will be stored. If the yaml config file this config struct has
	// been loaded does not specify a ReportsDir but sets ReportMemo, then ReportsDir will be created next to the
	// config file.
	ReportsDir string `yaml:"reports-dir,omitempty"`

	// ReportMemo can be set to true, in which case the function call memo will be written to a file named
	// memo-*.yaml in the reports directory
	ReportMemo bool `yaml:"report-memo,omitempty"`

	// ReportUnknown specifies whether sinks reached by values of unknown taint should be reported as warnings.
	ReportUnknown bool `yaml:"report-unknown,omitempty"`

	// SingleBranchConditionals makes the analysis walk only the "then" branch of conditional jumps, without a join
	// at the merge block. This is faster and less precise.
	SingleBranchConditionals bool `yaml:"single-branch-conditionals,omitempty"`

	// IncludePaths are directories where relative include paths are looked up after the directory of the including
	// file, like PHP's include_path. Relative entries are relative to the config file.
	IncludePaths []string `yaml:"include-paths,omitempty"`

	// MaxDepth sets a limit for the number of nested function calls and file inclusions explored during the
	// analysis. If MaxDepth <= 0, then it is ignored.
	MaxDepth int `yaml:"max-depth,omitempty"`

	// MaxMemoEntries bounds the number of function call mappings kept in the memo. If MaxMemoEntries <= 0, it is
	// ignored.
	MaxMemoEntries int `yaml:"max-memo-entries,omitempty"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level,omitempty"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn,omitempty"`
}

// NewDefault returns a default config with the default taint tracking problem.
func NewDefault() *Config {
	return &Config{
		sourceFile:            "",
		TaintTrackingProblems: []TaintSpec{DefaultTaintSpec()},
		Options: Options{
			ReportsDir:               "",
			ReportMemo:               false,
			ReportUnknown:            false,
			SingleBranchConditionals: false,
			IncludePaths:             nil,
			MaxDepth:                 DefaultMaxDepth,
			MaxMemoEntries:           0,
			LogLevel:                 int(InfoLevel),
			SilenceWarn:              false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := LoadFromBytes(filename, b)
	if err != nil {
		return nil, err
	}
	if cfg.ReportMemo {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadFromBytes reads a configuration from the contents of the file filename. The file is not accessed.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	// problems from the file replace the default problem
	cfg.TaintTrackingProblems = nil
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	if len(cfg.TaintTrackingProblems) == 0 {
		cfg.TaintTrackingProblems = []TaintSpec{DefaultTaintSpec()}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	// Set the MaxDepth default if it is <= 0
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	for i, p := range cfg.IncludePaths {
		if !path.IsAbs(p) {
			cfg.IncludePaths[i] = cfg.RelPath(p)
		}
	}

	for i := range cfg.TaintTrackingProblems {
		cfg.TaintTrackingProblems[i].compile()
	}

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports: %w", err)
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s: %w", c.ReportsDir, err)
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// compile compiles the regexes of every identifier and drops identifiers that do not name anything, since those
// would match every code element.
func (ts *TaintSpec) compile() {
	keep := func(cids []CodeIdentifier) []CodeIdentifier {
		var res []CodeIdentifier
		for _, cid := range cids {
			if !cid.isEmpty() {
				res = append(res, cid)
			}
		}
		funcutil.MapInPlace(res, compileRegexes)
		return res
	}
	ts.Sources = keep(ts.Sources)
	ts.Sanitizers = keep(ts.Sanitizers)
	ts.Sinks = keep(ts.Sinks)
}

// Below are functions used to query the configuration on specific facts

func (c Config) isSomeTaintSpecCid(cid CodeIdentifier, f func(t TaintSpec, cid CodeIdentifier) bool) bool {
	for _, x := range c.TaintTrackingProblems {
		if f(x, cid) {
			return true
		}
	}
	return false
}

// IsSomeSource returns true if the code identifier matches any source in the config
func (c Config) IsSomeSource(cid CodeIdentifier) bool {
	return c.isSomeTaintSpecCid(cid, func(t TaintSpec, cid2 CodeIdentifier) bool { return t.IsSource(cid2) })
}

// IsSomeSanitizer returns true if the code identifier matches any sanitizer for the context in the config.
// An empty context matches sanitizers of any context.
func (c Config) IsSomeSanitizer(cid CodeIdentifier, context string) bool {
	return c.isSomeTaintSpecCid(cid, func(t TaintSpec, cid2 CodeIdentifier) bool {
		return t.IsSanitizer(cid2, context)
	})
}

// SomeSink returns the first sink in the config matching the code identifier.
func (c Config) SomeSink(cid CodeIdentifier) (CodeIdentifier, bool) {
	for _, x := range c.TaintTrackingProblems {
		if sink, ok := x.Sink(cid); ok {
			return sink, true
		}
	}
	return CodeIdentifier{}, false
}

// IsSource returns true if the code identifier matches a source specification in the config file
func (ts TaintSpec) IsSource(cid CodeIdentifier) bool {
	_, ok := findCid(ts.Sources, cid.equalOnNonEmptyFields)
	return ok
}

// IsSanitizer returns true if the code identifier matches a sanitizer specification for context
func (ts TaintSpec) IsSanitizer(cid CodeIdentifier, context string) bool {
	_, ok := findCid(ts.Sanitizers, func(x CodeIdentifier) bool {
		return x.matchesContext(context) && cid.equalOnNonEmptyFields(x)
	})
	return ok
}

// Sink returns the sink specification matching the code identifier, if there is one
func (ts TaintSpec) Sink(cid CodeIdentifier) (CodeIdentifier, bool) {
	return findCid(ts.Sinks, cid.equalOnNonEmptyFields)
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxDepth returns true if the input exceeds the maximum depth parameter of the configuration.
// (this implements the logic for using maximum depth; if the configuration setting is <= 0, then this returns false)
func (c Config) ExceedsMaxDepth(d int) bool {
	if c.MaxDepth <= 0 {
		return false
	}
	return d > c.MaxDepth
}
