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

	"github.com/awslabs/tattler/internal/funcutil"
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

// Config contains the lists of taint tracking problems together with the options
// shared by all of them. To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the
// struct. Private fields are not populated from a yaml file, but computed after
// initialization.
type Config struct {
	Options

	sourceFile string

	// TaintProblems lists the taint tracking problem specifications
	TaintProblems []TaintSpec `xml:"taint-problem" yaml:"taint-problems"`
}

// TaintSpec contains the node identifiers that define a specific taint tracking
// problem
type TaintSpec struct {
	// Name identifies the problem in reports and statuses
	Name string `xml:"name,attr" yaml:"name"`

	// Sources is the list of sources for the taint analysis
	Sources []NodeIdentifier `xml:"source" yaml:"sources"`

	// Sinks is the list of sinks for the taint analysis
	Sinks []NodeIdentifier `xml:"sink" yaml:"sinks"`

	// Sanitizers is the list of sanitizers (barriers) for the taint analysis
	Sanitizers []NodeIdentifier `xml:"sanitizer" yaml:"sanitizers"`

	// Filters contains a list of filters; a node matching a filter is pruned from
	// propagation exactly like a sanitizer
	Filters []NodeIdentifier `xml:"filter" yaml:"filters"`

	// Steps is the list of additional flow steps to synthesize into the flow graph
	Steps []StepIdentifier `xml:"step" yaml:"steps"`

	// ImplicitReads lists the nodes that may read container content without a prior
	// matching store
	ImplicitReads []ImplicitReadSpec `xml:"implicit-read" yaml:"implicit-reads"`
}

// Options are the settings shared by all problems in a config file
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml
	// config file this config struct has been loaded from does not specify a
	// ReportsDir but sets ReportPaths to true, then ReportsDir will be created in the
	// folder of the config file.
	ReportsDir string `xml:"reports-dir,attr" yaml:"reports-dir"`

	// ReportPaths specifies whether the taint flows should be reported in separate
	// files. For each taint flow, a new file named taint-*.out will be generated with
	// the trace from source to sink
	ReportPaths bool `xml:"report-paths,attr" yaml:"report-paths"`

	// MaxAlarms sets a limit for the number of paths reported per problem. If
	// MaxAlarms > 0, then at most MaxAlarms will be reported. Otherwise, if
	// MaxAlarms <= 0, it is ignored.
	MaxAlarms int `xml:"max-alarms,attr" yaml:"max-alarms"`

	// MaxAccessDepth bounds the depth of the content access state tracked during
	// propagation. Stores beyond the bound saturate the state instead of growing it.
	// If MaxAccessDepth <= 0, the default is used.
	MaxAccessDepth int `xml:"max-access-depth,attr" yaml:"max-access-depth"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `xml:"log-level,attr" yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `xml:"silence-warn,attr" yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:    "",
		TaintProblems: nil,
		Options: Options{
			ReportsDir:     "",
			ReportPaths:    false,
			MaxAlarms:      0,
			MaxAccessDepth: DefaultMaxAccessDepth,
			LogLevel:       int(InfoLevel),
			SilenceWarn:    false,
		},
	}
}

// Load reads a configuration from a file. The file is parsed as yaml first and as
// xml when yaml parsing fails.
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	errYaml := yaml.Unmarshal(b, cfg)
	if errYaml != nil {
		errXML := ParseXMLConfigFormat(cfg, b)
		if errXML != nil {
			return nil, fmt.Errorf("could not unmarshal config file, not as yaml: %w, not as xml: %v",
				errYaml, errXML)
		}
	}

	cfg.sourceFile = filename

	if cfg.ReportPaths {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	// Set the MaxAccessDepth default if it is <= 0
	if cfg.MaxAccessDepth <= 0 {
		cfg.MaxAccessDepth = DefaultMaxAccessDepth
	}

	for i := range cfg.TaintProblems {
		compileSpecPatterns(&cfg.TaintProblems[i])
	}

	return cfg, nil
}

func compileSpecPatterns(ts *TaintSpec) {
	funcutil.MapInPlace(ts.Sources, compileRegexes)
	funcutil.MapInPlace(ts.Sinks, compileRegexes)
	funcutil.MapInPlace(ts.Sanitizers, compileRegexes)
	funcutil.MapInPlace(ts.Filters, compileRegexes)
	funcutil.MapInPlace(ts.Steps, func(s StepIdentifier) StepIdentifier {
		s.From = compileRegexes(s.From)
		s.To = compileRegexes(s.To)
		return s
	})
	funcutil.MapInPlace(ts.ImplicitReads, func(ir ImplicitReadSpec) ImplicitReadSpec {
		ir.Node = compileRegexes(ir.Node)
		funcutil.MapInPlace(ir.Labels, compileContentPattern)
		return ir
	})
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// Below are functions used to query the configuration on specific facts

// IsSource returns true if the node attributes match a source specification of the
// problem
func (ts TaintSpec) IsSource(attrs NodeAttrs) bool {
	return funcutil.Exists(ts.Sources, func(n NodeIdentifier) bool { return n.Matches(attrs) })
}

// IsSink returns true if the node attributes match a sink specification of the problem
func (ts TaintSpec) IsSink(attrs NodeAttrs) bool {
	return funcutil.Exists(ts.Sinks, func(n NodeIdentifier) bool { return n.Matches(attrs) })
}

// IsSanitizer returns true if the node attributes match a sanitizer or a filter
// specification of the problem
func (ts TaintSpec) IsSanitizer(attrs NodeAttrs) bool {
	return funcutil.Exists(ts.Sanitizers, func(n NodeIdentifier) bool { return n.Matches(attrs) }) ||
		funcutil.Exists(ts.Filters, func(n NodeIdentifier) bool { return n.Matches(attrs) })
}

// IsStep returns true if the ordered pair of node attributes matches an additional
// flow step specification of the problem
func (ts TaintSpec) IsStep(from NodeAttrs, to NodeAttrs) bool {
	return funcutil.Exists(ts.Steps, func(s StepIdentifier) bool {
		return s.From.Matches(from) && s.To.Matches(to)
	})
}

// AllowsImplicitRead returns true if the node attributes together with a content
// label (kind, name) match an implicit-read specification of the problem
func (ts TaintSpec) AllowsImplicitRead(attrs NodeAttrs, kind string, name string) bool {
	return funcutil.Exists(ts.ImplicitReads, func(ir ImplicitReadSpec) bool {
		return ir.Node.Matches(attrs) &&
			funcutil.Exists(ir.Labels, func(p ContentPattern) bool { return p.Matches(kind, name) })
	})
}

// ProblemByName returns the first taint problem with the given name, or none
func (c Config) ProblemByName(name string) funcutil.Optional[TaintSpec] {
	return funcutil.FindMap(c.TaintProblems,
		func(ts TaintSpec) TaintSpec { return ts },
		func(ts TaintSpec) bool { return ts.Name == name })
}

// IsSomeSource returns true if the node attributes match a source in any problem of
// the config
func (c Config) IsSomeSource(attrs NodeAttrs) bool {
	return funcutil.Exists(c.TaintProblems, func(ts TaintSpec) bool { return ts.IsSource(attrs) })
}

// IsSomeSink returns true if the node attributes match a sink in any problem of the
// config
func (c Config) IsSomeSink(attrs NodeAttrs) bool {
	return funcutil.Exists(c.TaintProblems, func(ts TaintSpec) bool { return ts.IsSink(attrs) })
}

// Verbose returns true is the configuration verbosity setting is larger than Info
// (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxAlarms returns true if the input exceeds the maximum alarms parameter of
// the configuration (if the configuration setting is <= 0, then this returns false)
func (c Config) ExceedsMaxAlarms(n int) bool {
	if c.MaxAlarms <= 0 {
		return false
	}
	return n >= c.MaxAlarms
}
