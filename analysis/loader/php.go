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

package loader

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/z7zmey/php-parser/node"
	"github.com/z7zmey/php-parser/php7"
)

// DefaultPHPVersion is the version of the PHP grammar used when none is set
const DefaultPHPVersion = "7.4"

// PHPParser parses PHP files and lowers them to control-flow graphs. Parsed files are cached, so that parsing the
// same file twice returns the same script.
type PHPParser struct {
	// Version is the PHP version the sources are parsed as, e.g. "7.4"
	Version string

	logger *config.LogGroup
	cache  map[string]*lang.Script
}

// NewPHPParser returns a parser for DefaultPHPVersion logging to logger
func NewPHPParser(logger *config.LogGroup) *PHPParser {
	return &PHPParser{
		Version: DefaultPHPVersion,
		logger:  logger,
		cache:   map[string]*lang.Script{},
	}
}

// ParseFile reads and parses the file at path
func (p *PHPParser) ParseFile(path string) (*lang.Script, error) {
	if s, ok := p.cache[path]; ok {
		return s, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	s, err := p.ParseSource(path, src)
	if err != nil {
		return nil, err
	}
	p.cache[path] = s
	return s, nil
}

// ParseSource parses src as the contents of the file path. The result is not cached.
func (p *PHPParser) ParseSource(path string, src []byte) (*lang.Script, error) {
	parser := php7.NewParser(src, p.Version)
	parser.Parse()
	if errs := parser.GetErrors(); len(errs) > 0 {
		for _, e := range errs[1:] {
			p.logger.Debugf("%s: %v", path, e)
		}
		return nil, fmt.Errorf("%s: %w: %v", path, ErrParse, errs[0])
	}
	root, ok := parser.GetRootNode().(*node.Root)
	if !ok {
		return nil, fmt.Errorf("%s: %w: missing root node", path, ErrParse)
	}
	p.logger.Tracef("parsed %s: %d top-level statements", path, len(root.Stmts))
	return lower(path, root.Stmts, p.logger), nil
}
