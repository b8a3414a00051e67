// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes grants operations as agent tools: a name, a
// description, a JSON schema for the input, and a JSON-in JSON-out call.
package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/logger"
)

// ITool is the contract an agent host invokes.
type ITool interface {
	// Name returns the name of the tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any
	// Call runs the tool on a JSON input and returns a JSON output.
	// Malformed or invalid input yields a criteria.ValidationError.
	Call(context.Context, string) (string, error)
}

// Tool adapts a typed run function to ITool.
type Tool[I any, O any] struct {
	name        string
	description string
	params      *jsonschema.Schema
	run         func(context.Context, *I) (*O, error)
}

var _ ITool = (*Tool[struct{}, struct{}])(nil)

// New returns a tool whose parameters are reflected from I.
func New[I any, O any](name, description string, run func(context.Context, *I) (*O, error)) *Tool[I, O] {
	return &Tool[I, O]{
		name:        name,
		description: description,
		params:      Schema(reflect.TypeOf((*I)(nil)).Elem()),
		run:         run,
	}
}

func (t *Tool[I, O]) Name() string        { return t.name }
func (t *Tool[I, O]) Description() string { return t.description }
func (t *Tool[I, O]) Parameters() any     { return t.params }

// Run validates in and runs the tool.
func (t *Tool[I, O]) Run(ctx context.Context, in *I) (*O, error) {
	if err := criteria.Validate(in); err != nil {
		return nil, err
	}
	return t.run(ctx, in)
}

// Call decodes input, runs the tool, and encodes the result.
func (t *Tool[I, O]) Call(ctx context.Context, input string) (string, error) {
	var in I
	if input == "" {
		input = "{}"
	}
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		if errors.Is(err, criteria.ErrValidation) {
			return "", err
		}
		return "", criteria.NewValidationError("input", "failed to unmarshal input: %v", err)
	}

	logger.FromContext(ctx).DebugContext(ctx, "calling tool", "tool", t.name)
	out, err := t.Run(ctx, &in)
	if err != nil {
		return "", err
	}
	bs, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal output")
	}
	return string(bs), nil
}

// Schema reflects the JSON schema of t with every definition inlined.
func Schema(t reflect.Type) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return r.ReflectFromType(t)
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]ITool
}

// NewRegistry returns a registry holding list. Names must be unique.
func NewRegistry(list ...ITool) (*Registry, error) {
	r := &Registry{tools: map[string]ITool{}}
	for _, t := range list {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t.
func (r *Registry) Register(t ITool) error {
	if _, ok := r.tools[t.Name()]; ok {
		return errors.Newf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (ITool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool sorted by name.
func (r *Registry) List() []ITool {
	out := make([]ITool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Description is the listing entry of one tool.
type Description struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Parameters  any    `json:"parameters" yaml:"parameters"`
}

// Describe lists every tool with its parameter schema.
func (r *Registry) Describe() []Description {
	list := r.List()
	out := make([]Description, 0, len(list))
	for _, t := range list {
		out = append(out, Description{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()})
	}
	return out
}
