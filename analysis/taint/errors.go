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

import "errors"

var (
	// ErrRedeclaredFunction is returned when a script declares a function that is already declared
	ErrRedeclaredFunction = errors.New("function redeclared")

	// ErrMaxDepth is recorded when an include is not analyzed because the analysis is already too deep
	ErrMaxDepth = errors.New("maximum analysis depth exceeded")
)
