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

/*
Package taint implements the taint analysis of PHP programs. The analysis walks the control-flow graphs built by the
loader package, threading a [Scope] through the operations, and annotates every operation visited with a [Taint]. The
main entry point of the analysis is the [Analyze] function, which returns an [AnalysisResult] containing the findings
and the state of the analysis.

Calls to user functions are resolved by walking the body of the callee, once for every vector of argument taints: the
results are kept in a [Memo]. Included files are analyzed when their path resolves to an existing file; otherwise the
taint of the include is the taint of its path, and an include whose path may be controlled by the attacker is
reported as a file inclusion.

The [Resolver] does not decide what a finding is: callers observe the analysis through [OpCallback]s, such as the
[FindingsCollector].
*/
package taint
