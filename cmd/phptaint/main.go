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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/loader"
	"github.com/awslabs/ar-php-tools/analysis/taint"
	"github.com/awslabs/ar-php-tools/internal/formatutil"
	"github.com/awslabs/ar-php-tools/internal/funcutil"
)

var (
	configPath   = flag.String("config", "", "Config file path for taint analysis")
	includePaths = flag.String("include", "", "Comma-separated directories searched for included files")
	phpVersion   = flag.String("php", loader.DefaultPHPVersion, "PHP version of the analyzed files")
	verbose      = flag.Bool("verbose", false, "Verbose printing on standard output")
	logLevel     = flag.String("log-level", "", "Log level (error, warn, info, debug, trace), overrides -verbose and the config")
	reportUnk    = flag.Bool("unknown", false, "Report sinks reached by data of unknown taint")
	noColor      = flag.Bool("no-color", false, "Disable colors in the output")
)

const usage = ` Perform taint analysis on your PHP files.
Usage:
    phptaint [options] <file(s)>
Examples:
% phptaint -config config.yaml index.php
Run without config to use the default sources, sanitizers and sinks.
`

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *noColor {
		formatutil.SetColors(false)
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		c, err := config.LoadGlobal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config %s: %v\n", *configPath, err)
			os.Exit(2)
		}
		cfg = c
	}
	if *verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	if *logLevel != "" {
		level, err := config.ParseLogLevel(*logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		cfg.LogLevel = int(level)
	}
	if *reportUnk {
		cfg.ReportUnknown = true
	}
	if *includePaths != "" {
		cfg.IncludePaths = append(cfg.IncludePaths, funcutil.Map(strings.Split(*includePaths, ","), strings.TrimSpace)...)
	}

	logger := config.NewLogGroup(cfg)
	parser := loader.NewPHPParser(logger)
	parser.Version = *phpVersion
	files := loader.NewFileHelper(cfg.IncludePaths)

	failed, reached := false, false
	for _, entry := range flag.Args() {
		start := time.Now()
		res, err := taint.Analyze(cfg, parser, files, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis of %s failed: %v\n", entry, err)
			failed = true
			continue
		}
		logger.Infof("Analysis took %3.4f s", time.Since(start).Seconds())

		for _, f := range res.Findings {
			if f.IsWarning() {
				fmt.Printf("%s %s: %s at %s\n", formatutil.Yellow("Possible "+f.Kind), f.Sink,
					formatutil.Sanitize(f.Expr), f.Position)
				continue
			}
			reached = true
			fmt.Printf("%s %s: %s at %s\n", formatutil.Red("Tainted data reaches "+f.Kind), f.Sink,
				formatutil.Sanitize(f.Expr), f.Position)
		}
		for _, e := range res.Errors {
			fmt.Printf("%s %v\n", formatutil.Faint("error:"), e)
		}
		for _, cycle := range res.IncludeCycles {
			logger.Infof("files include each other: %s", strings.Join(cycle, ", "))
		}
		if len(res.IncludeOrder) > 1 {
			logger.Debugf("include order: %s", strings.Join(res.IncludeOrder, " -> "))
		}
		if len(res.UndeclaredFunctions) > 0 {
			logger.Infof("undeclared functions, results unknown: %s", strings.Join(res.UndeclaredFunctions, ", "))
		}
		if len(res.RecursiveFunctions) > 0 {
			logger.Infof("recursive functions: %s", strings.Join(res.RecursiveFunctions, ", "))
		}
		logger.Debugf("%s", res.Statistics)
		fmt.Println(formatutil.Bold(res.Summary()))
	}

	if failed {
		os.Exit(2)
	}
	if reached {
		os.Exit(1)
	}
}
