package graph

import (
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql/introspection"
)

var errIntrospectionDisabled = errors.New("introspection disabled")

// introspect resolves the __schema and __type root fields
func (ex *execution) introspect(name string, args map[string]any) (any, error) {
	if !ex.introspection {
		return nil, errIntrospectionDisabled
	}

	switch name {
	case "__schema":
		return introspection.WrapSchema(ex.schema), nil
	case "__type":
		typeName, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		return optType(introspection.WrapTypeFromDef(ex.schema, ex.schema.Types[typeName])), nil
	}
	return nil, fmt.Errorf("unknown query field %q", name)
}

func introspectionField(parent any, name string, args map[string]any) (any, error) {
	includeDeprecated := args["includeDeprecated"] == true

	switch p := parent.(type) {
	case *introspection.Schema:
		switch name {
		case "description":
			return optString(p.Description()), nil
		case "types":
			return typeList(p.Types()), nil
		case "queryType":
			return optType(p.QueryType()), nil
		case "mutationType":
			return optType(p.MutationType()), nil
		case "subscriptionType":
			return optType(p.SubscriptionType()), nil
		case "directives":
			dirs := p.Directives()
			out := make([]any, len(dirs))
			for i := range dirs {
				out[i] = &dirs[i]
			}
			return out, nil
		}

	case *introspection.Type:
		switch name {
		case "kind":
			return p.Kind(), nil
		case "name":
			return optString(p.Name()), nil
		case "description":
			return optString(p.Description()), nil
		case "specifiedByURL":
			return optString(p.SpecifiedByURL()), nil
		case "fields":
			fields := p.Fields(includeDeprecated)
			out := make([]any, len(fields))
			for i := range fields {
				out[i] = &fields[i]
			}
			return out, nil
		case "interfaces":
			return typeList(p.Interfaces()), nil
		case "possibleTypes":
			return typeList(p.PossibleTypes()), nil
		case "enumValues":
			values := p.EnumValues(includeDeprecated)
			out := make([]any, len(values))
			for i := range values {
				out[i] = &values[i]
			}
			return out, nil
		case "inputFields":
			return inputValueList(p.InputFields()), nil
		case "ofType":
			return optType(p.OfType()), nil
		case "isOneOf":
			return p.IsOneOf(), nil
		}

	case *introspection.Field:
		switch name {
		case "name":
			return p.Name, nil
		case "description":
			return optString(p.Description()), nil
		case "args":
			return inputValueList(p.Args), nil
		case "type":
			return optType(p.Type), nil
		case "isDeprecated":
			return p.IsDeprecated(), nil
		case "deprecationReason":
			return optString(p.DeprecationReason()), nil
		}

	case *introspection.InputValue:
		switch name {
		case "name":
			return p.Name, nil
		case "description":
			return optString(p.Description()), nil
		case "type":
			return optType(p.Type), nil
		case "defaultValue":
			return optString(p.DefaultValue), nil
		case "isDeprecated":
			return p.IsDeprecated(), nil
		case "deprecationReason":
			return optString(p.DeprecationReason()), nil
		}

	case *introspection.EnumValue:
		switch name {
		case "name":
			return p.Name, nil
		case "description":
			return optString(p.Description()), nil
		case "isDeprecated":
			return p.IsDeprecated(), nil
		case "deprecationReason":
			return optString(p.DeprecationReason()), nil
		}

	case *introspection.Directive:
		switch name {
		case "name":
			return p.Name, nil
		case "description":
			return optString(p.Description()), nil
		case "isRepeatable":
			return p.IsRepeatable, nil
		case "locations":
			return p.Locations, nil
		case "args":
			return inputValueList(p.Args), nil
		}
	}
	return nil, fmt.Errorf("unknown field %q on %T", name, parent)
}

// optString and optType turn typed nil pointers into untyped nil so the
// executor sees a null value.
func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optType(t *introspection.Type) any {
	if t == nil {
		return nil
	}
	return t
}

func typeList(types []introspection.Type) []any {
	out := make([]any, len(types))
	for i := range types {
		out[i] = &types[i]
	}
	return out
}

func inputValueList(values []introspection.InputValue) []any {
	out := make([]any, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
