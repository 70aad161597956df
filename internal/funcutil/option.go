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

package funcutil

import "fmt"

// An Optional is either some value or none.
type Optional[T any] interface {
	// Value returns the value, panicking on none
	Value() T

	// ValueOr returns the value, or defaultVal on none
	ValueOr(defaultVal T) T

	// IsSome returns true when the optional holds a value
	IsSome() bool

	// IsNone returns true when the optional holds no value
	IsNone() bool
}

// Some returns an optional holding x
func Some[T any](x T) Optional[T] {
	return some[T]{x}
}

// None returns an optional holding no value
func None[T any]() Optional[T] {
	return none[T]{}
}

type some[T any] struct {
	value T
}

func (s some[T]) Value() T       { return s.value }
func (s some[T]) ValueOr(_ T) T  { return s.value }
func (s some[T]) IsSome() bool   { return true }
func (s some[T]) IsNone() bool   { return false }
func (s some[T]) String() string { return fmt.Sprintf("%v", s.value) }

type none[T any] struct{}

func (n none[T]) Value() T               { panic(n) }
func (n none[T]) ValueOr(defaultVal T) T { return defaultVal }
func (n none[T]) IsSome() bool           { return false }
func (n none[T]) IsNone() bool           { return true }
func (n none[T]) String() string         { return "none" }

// MapOption applies f to the value when there is one
func MapOption[T any, S any](x Optional[T], f func(T) S) Optional[S] {
	if v, ok := x.(some[T]); ok {
		return some[S]{f(v.value)}
	}
	return none[S]{}
}

// BindOption applies f to the value when there is one, flattening the result
func BindOption[T any, S any](x Optional[T], f func(T) Optional[S]) Optional[S] {
	if v, ok := x.(some[T]); ok {
		return f(v.value)
	}
	return none[S]{}
}

// MaybeOr returns x when it holds a value, and y otherwise
func MaybeOr[T any](x Optional[T], y Optional[T]) Optional[T] {
	if x.IsSome() {
		return x
	}
	return y
}
