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
	"encoding/xml"
	"fmt"
)

// xmlConfig mirrors Config for the xml fallback format. The document root is
// <tattler-config>, options are attributes of the root, and each taint problem is a
// <taint-problem> element whose children are <source>, <sink>, <sanitizer>, <filter>,
// <step> and <implicit-read> elements.
type xmlConfig struct {
	XMLName xml.Name `xml:"tattler-config"`
	Options
	TaintProblems []TaintSpec `xml:"taint-problem"`
}

// ParseXMLConfigFormat parses b as an xml configuration document and fills cfg with
// its contents. Used as a fallback when a config file does not parse as yaml.
func ParseXMLConfigFormat(cfg *Config, b []byte) error {
	var parsed xmlConfig
	if err := xml.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("could not parse xml config: %w", err)
	}
	cfg.Options = parsed.Options
	cfg.TaintProblems = parsed.TaintProblems
	return nil
}
