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

// Package taint binds the pattern-based problem specifications of the config package
// to the dataflow engine, and implements the result reporter: deduplication,
// deterministic ordering and optional per-flow report files.
//
// A config.TaintSpec lists node-identifier patterns for sources, sinks, sanitizers,
// filters, additional steps and implicit reads. NewProblemConfiguration turns one
// spec into a dataflow.Configuration. Classification stays an opaque predicate at
// the engine level, so callers with needs the pattern language cannot express can
// implement dataflow.Configuration directly instead.
package taint
