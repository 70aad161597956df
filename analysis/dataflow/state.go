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

package dataflow

import (
	"fmt"
	"sync"

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/program"
)

// AnalyzerState packages the immutable inputs shared by every problem run: the
// program graph, the configuration file and the logger. The error store is the only
// mutable part and is guarded by a mutex, since problems report their errors from
// independent workers.
type AnalyzerState struct {
	// The logger used during the analysis (can be used to control output)
	Logger *config.LogGroup

	// The configuration file for the analysis
	Config *config.Config

	// The program graph under analysis
	Graph *program.Graph

	// errors stores the non-fatal errors met during the analyses, keyed by problem
	// name
	errorMutex sync.Mutex
	errors     map[string][]error
}

// NewAnalyzerState returns an analyzer state for the given graph and config, with a
// logger initialized from the config's logging options
func NewAnalyzerState(g *program.Graph, cfg *config.Config) *AnalyzerState {
	return &AnalyzerState{
		Logger: config.NewLogGroup(cfg),
		Config: cfg,
		Graph:  g,
		errors: map[string][]error{},
	}
}

// AddError adds an error with key to the state. Discards nil errors.
func (s *AnalyzerState) AddError(key string, err error) {
	if err == nil {
		return
	}
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	s.errors[key] = append(s.errors[key], err)
}

// CheckError checks whether there is an error in the state, and if there is, returns
// the list of all errors stored, removing them from the state
func (s *AnalyzerState) CheckError() []error {
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	var errs []error
	for key, stored := range s.errors {
		for _, err := range stored {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	s.errors = map[string][]error{}
	return errs
}

// HasErrors returns true if the state has at least one stored error
func (s *AnalyzerState) HasErrors() bool {
	s.errorMutex.Lock()
	defer s.errorMutex.Unlock()
	return len(s.errors) > 0
}
