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
The phptaint tool runs the taint analysis on PHP files, reporting the sinks and the file inclusions reached by
attacker-controlled data.

Usage:

	phptaint [flags] -config config.yaml index.php...

Each file is analyzed separately, following the files it includes. The flags are:

	-config path       a path to the configuration file containing definitions for sinks, sources and sanitizers

	-include dir,...   directories searched for included files, added to the include paths of the config

	-php version       the PHP version the files are parsed as (default 7.4)

	-verbose=false     setting verbose mode, overrides config file options if set

	-log-level level   one of error, warn, info, debug or trace; overrides -verbose and the config

	-unknown=false     report sinks reached by data of unknown taint as warnings

	-no-color=false    print the reports without colors, even on a terminal

The exit status is 1 if some sink is reached, 2 if an error prevented the analysis.
*/
package main
