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
	"time"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/analysis/loader"
	"github.com/awslabs/ar-php-tools/internal/funcutil"
	"github.com/awslabs/ar-php-tools/internal/graphutil"
)

// AnalysisResult contains the results of the analysis of one entry file
type AnalysisResult struct {
	// Entry is the file analyzed
	Entry string

	// Scope is the scope at the end of the top-level code of the entry file
	Scope Scope

	// Annotations maps every operation visited to its taint, threats and type
	Annotations *Annotations

	// Memo contains the result taints of the user function calls resolved
	Memo *Memo

	// Findings are the sinks reached by tainted values, sorted by position
	Findings []Finding

	// RecursiveFunctions are the functions and files that are part of a cycle in the call graph
	RecursiveFunctions []string

	// CallCycles are the elementary cycles of the call graph. Each cycle starts and ends with the same function.
	CallCycles [][]string

	// IncludeCycles are the sets of files that include each other
	IncludeCycles [][]string

	// IncludeOrder lists the files analyzed, every file before the files it includes. It is empty when files
	// include each other.
	IncludeOrder []string

	// UndeclaredFunctions are the functions called but not declared in the files analyzed, and unknown to the
	// catalog and the builtin summaries
	UndeclaredFunctions []string

	// Statistics describes the control-flow graphs of the entry file and the files it includes
	Statistics lang.Statistics

	// Errors contains the errors recorded while analyzing included files. Those errors do not stop the analysis.
	Errors []error
}

// Analyze runs the taint analysis on the file entry with the user-provided configuration cfg.
//
// - cfg determines the sources, sanitizers and sinks, and the options of the analysis.
//
// - parser builds the control-flow graphs of the entry file and the files it includes.
//
// - files resolves the paths of included files.
//
// The error is non-nil when the entry file cannot be analyzed.
func Analyze(cfg *config.Config, parser loader.Parser, files loader.FileHelper, entry string) (AnalysisResult, error) {
	logger := config.NewLogGroup(cfg)
	r := NewResolver(cfg, logger, parser, files)
	collector := NewFindingsCollector(r)
	r.AddCallback(collector.Visit)

	logger.Infof("Analyzing %s ...", entry)
	start := time.Now()
	scope, err := r.Run(entry)
	if err != nil {
		return AnalysisResult{Entry: entry, Errors: []error{err}}, err
	}
	logger.Infof("Analysis of %s done (%.2f s).", entry, time.Since(start).Seconds())

	res := AnalysisResult{
		Entry:         entry,
		Scope:         scope,
		Annotations:   r.annotations,
		Memo:          r.memo,
		Findings:      collector.Findings(),
		IncludeCycles: r.includeGraph.Cycles(),
		Statistics:    lang.ScriptStatistics(r.scripts),
		Errors:        r.errors,
	}
	res.UndeclaredFunctions = r.UndeclaredFunctions()
	if order, err := r.includeGraph.Order(); err == nil {
		res.IncludeOrder = order
	} else {
		logger.Debugf("no include order for %s: %v", entry, err)
	}
	res.RecursiveFunctions = r.callGraph.Names(graphutil.RecursiveNodes(r.callGraph))
	res.CallCycles = funcutil.Map(graphutil.FindAllElementaryCycles(r.callGraph), r.callGraph.Names)

	if cfg.ReportMemo {
		name, err := WriteMemo(cfg.ReportsDir, r.memo)
		if err != nil {
			logger.Warnf("%v", err)
			res.Errors = append(res.Errors, err)
		} else {
			logger.Infof("Memo report in %s", name)
		}
	}
	if len(res.Errors) > 0 {
		logger.Warnf("%d errors during the analysis of %s", len(res.Errors), entry)
	}
	logger.Debugf("Statistics: %s", res.Statistics)
	logger.Infof("%d findings, %d functions in the memo", len(res.Findings), r.memo.Len())
	return res, nil
}

// Summary returns a one-line description of the result
func (a AnalysisResult) Summary() string {
	errs, warns := 0, 0
	for _, f := range a.Findings {
		if f.IsWarning() {
			warns++
		} else {
			errs++
		}
	}
	return fmt.Sprintf("%s: %d sinks reached, %d warnings, %d errors", a.Entry, errs, warns, len(a.Errors))
}
