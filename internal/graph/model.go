package graph

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/palemoky/chinese-poetry-web/internal/database"
)

func poemField(p *database.Poem, name string) (any, error) {
	switch name {
	case "id":
		return strconv.FormatInt(p.ID, 10), nil
	case "uuid":
		return p.UUID, nil
	case "title":
		return p.Title, nil
	case "intro":
		return textBlock(p.Intro), nil
	case "paragraphs":
		if p.Paragraphs == nil {
			return []string{}, nil
		}
		return []string(p.Paragraphs), nil
	case "appreciation":
		return textBlock(p.Appreciation), nil
	case "translation":
		return textBlock(p.Translation), nil
	case "kind":
		return optionalString(p.Kind), nil
	case "annotations":
		if p.Annotations == nil {
			return nil, nil
		}
		return []database.Annotation(p.Annotations), nil
	case "author":
		if p.Author == nil {
			return nil, nil
		}
		return p.Author, nil
	}
	return nil, fmt.Errorf("unknown field Poem.%s", name)
}

func authorField(a *database.Author, name string) (any, error) {
	switch name {
	case "name":
		return a.Name, nil
	case "dynasty":
		return optionalString(a.Dynasty), nil
	case "birthYear":
		return deref(a.BirthYear), nil
	case "deathYear":
		return deref(a.DeathYear), nil
	case "intro":
		return deref(a.Intro), nil
	}
	return nil, fmt.Errorf("unknown field Author.%s", name)
}

func connectionField(c *database.PoemConnection, name string) (any, error) {
	switch name {
	case "edges":
		edges := make([]any, len(c.Edges))
		for i := range c.Edges {
			edges[i] = &c.Edges[i]
		}
		return edges, nil
	case "pageInfo":
		return &c.PageInfo, nil
	case "totalCount":
		return c.TotalCount, nil
	}
	return nil, fmt.Errorf("unknown field PoemConnection.%s", name)
}

func edgeField(e *database.PoemEdge, name string) (any, error) {
	switch name {
	case "node":
		return &e.Node, nil
	case "cursor":
		return e.Cursor, nil
	}
	return nil, fmt.Errorf("unknown field PoemEdge.%s", name)
}

func pageInfoField(p *database.PageInfo, name string) (any, error) {
	switch name {
	case "hasNextPage":
		return p.HasNextPage, nil
	case "hasPreviousPage":
		return p.HasPreviousPage, nil
	case "startCursor":
		return deref(p.StartCursor), nil
	case "endCursor":
		return deref(p.EndCursor), nil
	}
	return nil, fmt.Errorf("unknown field PageInfo.%s", name)
}

// textBlock exposes an absent or empty commentary block as null
func textBlock(b []string) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringArg(args map[string]any, name string) (string, error) {
	switch v := args[name].(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", fmt.Errorf("argument %q is required", name)
	default:
		return "", fmt.Errorf("argument %q: unexpected %T", name, v)
	}
}

func optionalStringArg(args map[string]any, name string) (*string, error) {
	if args[name] == nil {
		return nil, nil
	}
	s, err := stringArg(args, name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func optionalIntArg(args map[string]any, name string) (*int, error) {
	var n int
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		n = i
	default:
		return nil, fmt.Errorf("argument %q: unexpected %T", name, v)
	}
	return &n, nil
}
