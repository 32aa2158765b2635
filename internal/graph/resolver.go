package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/gqlgen/graphql/introspection"

	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/helpers"
)

// Resolver answers the root query fields from the repository
type Resolver struct {
	Repo *database.Repository
}

func NewResolver(repo *database.Repository) *Resolver {
	return &Resolver{Repo: repo}
}

// Poem returns the poem with the given uuid, or nil when none exists.
func (r *Resolver) Poem(ctx context.Context, uuid string, lang *string) (*database.Poem, error) {
	poem, err := r.Repo.WithLang(helpers.ParseLangPointer(lang)).GetPoemByUUID(uuid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poem: %w", err)
	}
	return poem, nil
}

// Poems returns a page of poems in insertion order
func (r *Resolver) Poems(ctx context.Context, page, pageSize *int, lang *string) (*database.PoemConnection, error) {
	pag := helpers.PaginationFromPointers(page, pageSize)

	poems, total, err := r.Repo.WithLang(helpers.ParseLangPointer(lang)).ListPoems(pag.PageSize, pag.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list poems: %w", err)
	}
	return helpers.BuildPoemConnection(poems, pag, total), nil
}

func (r *Resolver) query(ctx context.Context, name string, args map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch name {
	case "poem":
		uuid, err := stringArg(args, "uuid")
		if err != nil {
			return nil, err
		}
		lang, err := optionalStringArg(args, "lang")
		if err != nil {
			return nil, err
		}
		poem, err := r.Poem(ctx, uuid, lang)
		if err != nil || poem == nil {
			return nil, err
		}
		return poem, nil

	case "poems":
		page, err := optionalIntArg(args, "page")
		if err != nil {
			return nil, err
		}
		pageSize, err := optionalIntArg(args, "pageSize")
		if err != nil {
			return nil, err
		}
		lang, err := optionalStringArg(args, "lang")
		if err != nil {
			return nil, err
		}
		conn, err := r.Poems(ctx, page, pageSize, lang)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return nil, fmt.Errorf("unknown query field %q", name)
}

// resolve returns the raw value of a field on parent; a nil parent is the
// query root.
func (ex *execution) resolve(parent any, name string, args map[string]any) (any, error) {
	switch p := parent.(type) {
	case nil:
		if strings.HasPrefix(name, "__") {
			return ex.introspect(name, args)
		}
		return ex.resolver.query(ex.ctx, name, args)
	case *database.Poem:
		return poemField(p, name)
	case *database.Author:
		return authorField(p, name)
	case *database.PoemConnection:
		return connectionField(p, name)
	case *database.PoemEdge:
		return edgeField(p, name)
	case *database.PageInfo:
		return pageInfoField(p, name)
	case *introspection.Schema, *introspection.Type, *introspection.Field,
		*introspection.InputValue, *introspection.EnumValue, *introspection.Directive:
		return introspectionField(parent, name, args)
	}
	return nil, fmt.Errorf("cannot resolve %q on %T", name, parent)
}
