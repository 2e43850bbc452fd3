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
	"os"
	"sort"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/internal/formatutil"
	"gopkg.in/yaml.v3"
)

// KindFileInclusion is the kind of findings at includes whose path is controlled by the attacker
const KindFileInclusion = "file-inclusion"

// A Finding is an operation where attacker data reaches a sink
type Finding struct {
	// Kind is KindFileInclusion, or the context of the sink function
	Kind string
	// Sink is the name of the sink function, or the kind of include
	Sink string
	// Expr is the unwound value reaching the sink
	Expr string
	// Taint is Tainted for vulnerabilities, Unknown for warnings
	Taint    Taint
	Position lang.Position
	Op       lang.Operation
}

// IsWarning returns true when the value reaching the sink is only possibly tainted
func (f Finding) IsWarning() bool {
	return f.Taint != Tainted
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s %s(%s) [%s]", f.Position, f.Kind, f.Sink, f.Expr, f.Taint)
}

type findingKey struct {
	op   lang.Operation
	kind string
}

// FindingsCollector is a callback of the resolver recording the sinks reached by tainted values. Values of unknown
// taint are recorded as warnings when reportUnknown is set.
type FindingsCollector struct {
	tf            *TransitionFunction
	annotations   *Annotations
	logger        *config.LogGroup
	reportUnknown bool
	findings      []Finding
	seen          map[findingKey]bool
}

// NewFindingsCollector returns a collector for the operations annotated by r
func NewFindingsCollector(r *Resolver) *FindingsCollector {
	return &FindingsCollector{
		tf:            r.tf,
		annotations:   r.annotations,
		logger:        r.logger,
		reportUnknown: r.config.ReportUnknown,
		seen:          map[findingKey]bool{},
	}
}

// Visit is the OpCallback of the collector
func (fc *FindingsCollector) Visit(op lang.Operation, scope Scope) {
	switch x := op.(type) {
	case *lang.Include:
		t, ok := fc.annotations.Taint(x)
		if !ok || !hasThreat(fc.annotations.Threats(x), ThreatFile) {
			return
		}
		fc.add(x, KindFileInclusion, x.Kind.String(), lang.UnwrapOperand(x.Expr), t)
	case *lang.FunctionCall:
		name := CalleeName(x.Name)
		if ctx, ok := fc.tf.IsSink(name); ok {
			fc.checkArgs(scope, x, name, ctx, x.Args)
		}
	case *lang.MethodCall:
		method := CalleeName(x.Name)
		if ctx, ok := fc.tf.IsMethodSink(fc.tf.classOf(x.Var), method); ok {
			fc.checkArgs(scope, x, method, ctx, x.Args)
		}
	}
}

// checkArgs records a finding if one of the arguments of the call to the sink is tainted and not sanitized for ctx
func (fc *FindingsCollector) checkArgs(scope Scope, op lang.Operation, name string, ctx string, args []lang.Operand) {
	worst := Untainted
	var expr string
	for _, arg := range args {
		if t := fc.contextTaint(scope, arg, ctx, 0); t > worst {
			worst = t
			expr = lang.UnwrapOperand(arg)
		}
	}
	kind := ctx
	if kind == "" {
		kind = "sink"
	}
	fc.add(op, kind, name, expr, worst)
}

// contextTaint returns the taint of o when it is used in ctx. The result of a sanitizer for another context has the
// taint of the sanitizer's arguments.
func (fc *FindingsCollector) contextTaint(scope Scope, o lang.Operand, ctx string, depth int) Taint {
	t := fc.tf.Transfer(scope, o)
	if t != Untainted || depth > maxResolveDepth {
		return t
	}
	for _, def := range definitions(o) {
		call, ok := def.(*lang.FunctionCall)
		if !ok {
			continue
		}
		name := CalleeName(call.Name)
		if fc.tf.IsSanitizer(name, "") && !fc.tf.IsSanitizer(name, ctx) {
			for _, arg := range call.Args {
				t = Join(t, fc.contextTaint(scope, arg, ctx, depth+1))
			}
		}
	}
	return t
}

func (fc *FindingsCollector) add(op lang.Operation, kind string, sink string, expr string, t Taint) {
	if t == Untainted || (t == Unknown && !fc.reportUnknown) {
		return
	}
	key := findingKey{op: op, kind: kind}
	if fc.seen[key] {
		return
	}
	fc.seen[key] = true
	f := Finding{Kind: kind, Sink: sink, Expr: expr, Taint: t, Position: op.Position(), Op: op}
	fc.findings = append(fc.findings, f)
	if f.IsWarning() {
		fc.logger.Warnf(" ❔ Possible %s at %s: %s", kind, formatutil.Yellow(f.Position), formatutil.Sanitize(expr))
	} else {
		fc.logger.Infof(" 💀 Sink reached at %s", formatutil.Red(f.Position))
		fc.logger.Infof(" Add new %s flow from %s to %s <== ", kind, formatutil.Green(formatutil.Sanitize(expr)),
			formatutil.Red(sink))
	}
}

// Findings returns the findings sorted by position
func (fc *FindingsCollector) Findings() []Finding {
	res := append([]Finding(nil), fc.findings...)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Position.File != res[j].Position.File {
			return res[i].Position.File < res[j].Position.File
		}
		return res[i].Position.Line < res[j].Position.Line
	})
	return res
}

func hasThreat(threats []string, threat string) bool {
	for _, t := range threats {
		if t == threat {
			return true
		}
	}
	return false
}

// WriteMemo writes the memo as yaml in a new file memo-*.yaml of dir, and returns the name of the file
func WriteMemo(dir string, memo *Memo) (string, error) {
	tmp, err := os.CreateTemp(dir, "memo-*.yaml")
	if err != nil {
		return "", fmt.Errorf("could not create memo report: %w", err)
	}
	defer tmp.Close()
	enc := yaml.NewEncoder(tmp)
	if err := enc.Encode(memo); err != nil {
		return "", fmt.Errorf("could not write memo report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("could not write memo report: %w", err)
	}
	return tmp.Name(), nil
}
