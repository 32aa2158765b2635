// Package graph serves the poem query API over GraphQL.
//
// The Executor implements gqlgen's ExecutableSchema over the embedded schema,
// so parsing, validation and the HTTP transports are gqlgen's while fields
// are resolved directly against the repository. Only query operations are
// supported.
package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	gqlexecutor "github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

//go:embed schema.graphql
var schemaSource string

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})

// queryCacheSize bounds the number of parsed documents kept per executor
const queryCacheSize = 1000

// Request is a GraphQL request as sent by clients
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL response. Data is absent when the request
// could not be validated.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors gqlerror.List   `json:"errors,omitempty"`
}

// Executor runs validated queries against a Resolver
type Executor struct {
	schema   *ast.Schema
	resolver *Resolver
	local    *gqlexecutor.Executor
}

var _ graphql.ExecutableSchema = (*Executor)(nil)

// NewExecutor creates an executor for the embedded schema
func NewExecutor(resolver *Resolver) *Executor {
	e := &Executor{schema: schema, resolver: resolver}
	e.local = newGQLExecutor(e)
	return e
}

func newGQLExecutor(es graphql.ExecutableSchema) *gqlexecutor.Executor {
	exec := gqlexecutor.New(es)
	exec.SetQueryCache(lru.New[*ast.QueryDocument](queryCacheSize))
	exec.Use(extension.Introspection{})
	exec.SetRecoverFunc(recoverFunc)
	return exec
}

func recoverFunc(ctx context.Context, err any) error {
	logger.Error("GraphQL resolver panic", zap.Any("panic", err))
	return gqlerror.Errorf("internal server error")
}

// Schema implements graphql.ExecutableSchema
func (e *Executor) Schema() *ast.Schema {
	return e.schema
}

// Complexity implements graphql.ExecutableSchema. Every field costs the default.
func (e *Executor) Complexity(ctx context.Context, typeName, fieldName string, childComplexity int, args map[string]any) (int, bool) {
	return 0, false
}

// Exec implements graphql.ExecutableSchema, running the operation that gqlgen
// has already parsed and validated.
func (e *Executor) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "%s operations are not supported", opCtx.Operation.Operation))
	}

	ex := &execution{
		Executor:      e,
		ctx:           ctx,
		doc:           opCtx.Doc,
		vars:          opCtx.Variables,
		introspection: !opCtx.DisableIntrospection,
	}

	var data any
	if root, ok := ex.selectionSet(e.schema.Query, nil, opCtx.Operation.SelectionSet, nil); ok {
		data = root
	}

	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to encode GraphQL response", zap.Error(err))
		return graphql.OneShot(graphql.ErrorResponse(ctx, "failed to encode response"))
	}
	return graphql.OneShot(&graphql.Response{Data: raw, Errors: ex.errors})
}

// Execute parses, validates and runs a request in-process.
func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	opCtx, errs := e.local.CreateOperationContext(ctx, &graphql.RawParams{
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
	})
	if errs != nil {
		return &Response{Errors: errs}
	}

	handler, ctx := e.local.DispatchOperation(ctx, opCtx)
	resp := handler(ctx)
	if resp == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("no response")}}
	}
	return &Response{Data: resp.Data, Errors: resp.Errors}
}

// execution holds the state of a single operation
type execution struct {
	*Executor
	ctx           context.Context
	doc           *ast.QueryDocument
	vars          map[string]any
	introspection bool
	errors        gqlerror.List
}

func (ex *execution) fail(path ast.Path, err error) {
	logger.Debug("GraphQL field error", zap.String("path", path.String()), zap.Error(err))
	ex.errors = append(ex.errors, gqlerror.ErrorPathf(path, "%s", err.Error()))
}

// selectionSet resolves every field of an object value. It reports false when
// a non-null field came back null, so the null propagates to the parent.
func (ex *execution) selectionSet(def *ast.Definition, parent any, set ast.SelectionSet, path ast.Path) (*object, bool) {
	obj := &object{}
	for _, group := range ex.collectFields(def.Name, set) {
		field := group.fields[0]
		fieldPath := appendPath(path, ast.PathName(group.key))

		if field.Name == "__typename" {
			obj.set(group.key, def.Name)
			continue
		}

		fieldDef := def.Fields.ForName(field.Name)
		if fieldDef == nil {
			ex.fail(fieldPath, fmt.Errorf("field %q is not supported", field.Name))
			obj.set(group.key, nil)
			continue
		}
		if field.Definition == nil {
			field.Definition = fieldDef
		}

		value, err := ex.resolve(parent, field.Name, field.ArgumentMap(ex.vars))
		if err != nil {
			ex.fail(fieldPath, err)
			if fieldDef.Type.NonNull {
				return nil, false
			}
			obj.set(group.key, nil)
			continue
		}

		completed, ok := ex.complete(fieldDef.Type, value, group.selections(), fieldPath)
		if !ok {
			return nil, false
		}
		obj.set(group.key, completed)
	}
	return obj, true
}

// complete shapes a resolved value according to its schema type.
func (ex *execution) complete(typ *ast.Type, value any, set ast.SelectionSet, path ast.Path) (any, bool) {
	if value == nil {
		if typ.NonNull {
			ex.fail(path, errors.New("non-null field resolved to null"))
			return nil, false
		}
		return nil, true
	}

	if typ.Elem != nil {
		items, err := listValue(value)
		if err != nil {
			ex.fail(path, err)
			return nil, !typ.NonNull
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, ok := ex.complete(typ.Elem, item, set, appendPath(path, ast.PathIndex(i)))
			if !ok {
				return nil, !typ.NonNull
			}
			out[i] = v
		}
		return out, true
	}

	def := ex.schema.Types[typ.NamedType]
	if def == nil || def.Kind != ast.Object {
		return value, true
	}

	obj, ok := ex.selectionSet(def, value, set, path)
	if !ok {
		return nil, !typ.NonNull
	}
	return obj, true
}

// fieldGroup is every field selected under the same response key
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

func (g *fieldGroup) selections() ast.SelectionSet {
	var set ast.SelectionSet
	for _, f := range g.fields {
		set = append(set, f.SelectionSet...)
	}
	return set
}

// collectFields flattens fragments and applies @skip and @include, keeping
// the order in which response keys first appear.
func (ex *execution) collectFields(typeName string, set ast.SelectionSet) []*fieldGroup {
	var groups []*fieldGroup
	index := make(map[string]*fieldGroup)
	visited := make(map[string]bool)

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !ex.included(sel.Directives) {
					continue
				}
				key := sel.Alias
				if key == "" {
					key = sel.Name
				}
				if g, ok := index[key]; ok {
					g.fields = append(g.fields, sel)
					continue
				}
				g := &fieldGroup{key: key, fields: []*ast.Field{sel}}
				index[key] = g
				groups = append(groups, g)
			case *ast.InlineFragment:
				if !ex.included(sel.Directives) || !typeMatches(sel.TypeCondition, typeName) {
					continue
				}
				walk(sel.SelectionSet)
			case *ast.FragmentSpread:
				if visited[sel.Name] || !ex.included(sel.Directives) {
					continue
				}
				visited[sel.Name] = true
				frag := ex.doc.Fragments.ForName(sel.Name)
				if frag == nil || !typeMatches(frag.TypeCondition, typeName) {
					continue
				}
				walk(frag.SelectionSet)
			}
		}
	}
	walk(set)
	return groups
}

func (ex *execution) included(dirs ast.DirectiveList) bool {
	if d := dirs.ForName("skip"); d != nil && d.ArgumentMap(ex.vars)["if"] == true {
		return false
	}
	if d := dirs.ForName("include"); d != nil && d.ArgumentMap(ex.vars)["if"] != true {
		return false
	}
	return true
}

func typeMatches(condition, typeName string) bool {
	return condition == "" || condition == typeName
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func listValue(v any) ([]any, error) {
	switch items := v.(type) {
	case []any:
		return items, nil
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list, got %T", v)
}

// object is a JSON object that keeps the order of its keys
type object struct {
	keys   []string
	values map[string]any
}

func (o *object) set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// MarshalJSON implements json.Marshaler
func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
