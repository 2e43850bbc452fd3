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

const (
	// DefaultMaxDepth is the default bound on nested user function calls and file inclusions.
	DefaultMaxDepth = 64

	// ContextFile is the usage context of file system sinks, including dynamic file inclusion.
	ContextFile = "file"
	// ContextHTML is the usage context of output sinks.
	ContextHTML = "html"
	// ContextShell is the usage context of command execution sinks.
	ContextShell = "shell"
	// ContextSQL is the usage context of database query sinks.
	ContextSQL = "sql"
)

// DefaultTaintSpec returns the taint specification used when a config declares no taint tracking problem.
// Sanitizers without a context sanitize for every context.
func DefaultTaintSpec() TaintSpec {
	ts := TaintSpec{
		Sources: []CodeIdentifier{
			{Variable: "_GET"},
			{Variable: "_POST"},
			{Variable: "_REQUEST"},
			{Variable: "_COOKIE"},
			{Variable: "_SERVER"},
			{Variable: "_FILES"},
			{Variable: "_SESSION"},
			{Variable: "_ENV"},
			{Function: "getenv"},
			{Function: "getallheaders"},
			{Function: "apache_request_headers"},
		},
		Sanitizers: []CodeIdentifier{
			{Function: "intval"},
			{Function: "floatval"},
			{Function: "boolval"},
			{Function: "basename", Context: ContextFile},
			{Function: "realpath", Context: ContextFile},
			{Function: "htmlspecialchars", Context: ContextHTML},
			{Function: "htmlentities", Context: ContextHTML},
			{Function: "strip_tags", Context: ContextHTML},
			{Function: "escapeshellarg", Context: ContextShell},
			{Function: "escapeshellcmd", Context: ContextShell},
			{Function: "mysqli_real_escape_string", Context: ContextSQL},
			{Function: "addslashes", Context: ContextSQL},
		},
		Sinks: []CodeIdentifier{
			{Function: "echo|print|printf", Context: ContextHTML},
			{Function: "system|exec|passthru|shell_exec|popen|proc_open", Context: ContextShell},
			{Function: "mysqli_query|mysql_query|pg_query", Context: ContextSQL},
			{Function: "readfile|fopen|file_get_contents|file_put_contents|unlink", Context: ContextFile},
		},
	}
	ts.compile()
	return ts
}
