// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	Value *T

	// Unified is the schema-unified CUE value.
	Unified cue.Value
}

// ParseAndDecode compiles the schema and the CUE source data, unifies data
// with the definition at schemaPath, validates the result and decodes it
// into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	unified, err := Unify(schema, schemaPath, userValue, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// CompileJSON turns JSON data into a CUE value, keeping object key order.
// Syntax errors are returned formatted with the filename.
func CompileJSON(ctx *cue.Context, data []byte, opts ...Option) (cue.Value, error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	expr, err := cuejson.Extract(o.filename, data)
	if err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	v := ctx.BuildExpr(expr, cue.Filename(o.filename))
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), o.filename)
	}
	return v, nil
}

// Unify compiles schema in the context of v, unifies v with the definition
// at schemaPath and validates the result.
func Unify(schema []byte, schemaPath string, v cue.Value, opts ...Option) (cue.Value, error) {
	o := applyOptions(opts)

	schemaValue := v.Context().CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	unified := root.Unify(v)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}
