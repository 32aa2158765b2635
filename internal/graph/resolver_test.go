package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/client"
	"github.com/99designs/gqlgen/graphql"
	gqlexecutor "github.com/99designs/gqlgen/graphql/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/page"
	"github.com/palemoky/chinese-poetry-web/internal/testutil"
)

// setupTestExecutor creates an executor over an in-memory database
func setupTestExecutor(t *testing.T) (*Executor, *database.DB, *database.Repository) {
	t.Helper()
	db, repo := testutil.SetupTestDB(t)
	return NewExecutor(NewResolver(repo)), db, repo
}

// createTestClient creates a GraphQL test client backed by the gin handler
func createTestClient(exec *Executor) *client.Client {
	router := testutil.SetupTestGin()
	h := Handler(exec)
	router.POST("/graphql", h)
	router.GET("/graphql", h)
	return client.New(router, client.Path("/graphql"))
}

func TestPoemQuery(t *testing.T) {
	exec, _, repo := setupTestExecutor(t)
	testutil.SeedJingYeSi(t, repo)
	c := createTestClient(exec)

	t.Run("page query returns the full record", func(t *testing.T) {
		var resp struct {
			Poem *struct {
				ID           string
				UUID         string
				Title        string
				Intro        []string
				Paragraphs   []string
				Appreciation []string
				Translation  []string
				Kind         string
				Annotations  []struct {
					Key   string
					Value string
				}
				Author struct {
					Name      string
					Dynasty   string
					BirthYear int
					DeathYear int
					Intro     string
				}
			}
		}

		err := c.Post(page.PoemQuery, &resp, client.Var("uuid", testutil.JingYeSiUUID))
		require.NoError(t, err)
		require.NotNil(t, resp.Poem)

		p := resp.Poem
		assert.Equal(t, "静夜思", p.Title)
		assert.Equal(t, testutil.JingYeSiUUID, p.UUID)
		assert.Len(t, p.Paragraphs, 2)
		assert.Len(t, p.Intro, 1)
		assert.Len(t, p.Appreciation, 2)
		assert.Len(t, p.Translation, 2)
		assert.Equal(t, "五言绝句", p.Kind)
		require.Len(t, p.Annotations, 3)
		assert.Equal(t, "举头", p.Annotations[2].Key)
		assert.Equal(t, "唐", p.Author.Dynasty)
		assert.Equal(t, 701, p.Author.BirthYear)
		assert.Equal(t, 762, p.Author.DeathYear)
	})

	t.Run("unknown uuid returns null without error", func(t *testing.T) {
		var resp struct {
			Poem *struct {
				Title string
			}
		}

		err := c.Post(`query { poem(uuid: "00000000-0000-0000-0000-000000000000") { title } }`, &resp)
		require.NoError(t, err)
		assert.Nil(t, resp.Poem)
	})

	t.Run("traditional variant", func(t *testing.T) {
		var resp struct {
			Poem struct {
				Title      string
				Paragraphs []string
			}
		}

		err := c.Post(`query($uuid: ID!) { poem(uuid: $uuid, lang: "zh-Hant") { title paragraphs } }`, &resp,
			client.Var("uuid", testutil.JingYeSiUUID))
		require.NoError(t, err)
		assert.Equal(t, "靜夜思", resp.Poem.Title)
		assert.Equal(t, "舉頭望明月，低頭思故鄉。", resp.Poem.Paragraphs[1])
	})

	t.Run("get request", func(t *testing.T) {
		query := url.QueryEscape(`{ poem(uuid: "` + testutil.JingYeSiUUID + `") { title } }`)
		w := httptest.NewRecorder()
		router := testutil.SetupTestGin()
		router.GET("/graphql", Handler(exec))
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query="+query, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"poem":{"title":"静夜思"}}}`, w.Body.String())
	})
}

func TestPoemsQuery(t *testing.T) {
	exec, _, repo := setupTestExecutor(t)
	testutil.SeedPoems(t, repo, 5)
	c := createTestClient(exec)

	t.Run("default pagination", func(t *testing.T) {
		var resp struct {
			Poems struct {
				Edges []struct {
					Node struct {
						Title string
					}
				}
				TotalCount int
			}
		}

		err := c.Post(`query { poems { edges { node { title } } totalCount } }`, &resp)
		require.NoError(t, err)
		assert.Len(t, resp.Poems.Edges, 5)
		assert.Equal(t, 5, resp.Poems.TotalCount)
	})

	t.Run("second page", func(t *testing.T) {
		var resp struct {
			Poems struct {
				Edges []struct {
					Cursor string
					Node   struct {
						Title string
					}
				}
				PageInfo struct {
					HasNextPage     bool
					HasPreviousPage bool
					StartCursor     *string
					EndCursor       *string
				}
			}
		}

		err := c.Post(`query($page: Int, $pageSize: Int) {
			poems(page: $page, pageSize: $pageSize) {
				edges { cursor node { title } }
				pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
			}
		}`, &resp, client.Var("page", 2), client.Var("pageSize", 2))
		require.NoError(t, err)

		require.Len(t, resp.Poems.Edges, 2)
		assert.Equal(t, "诗2", resp.Poems.Edges[0].Node.Title)
		assert.Equal(t, "2", resp.Poems.Edges[0].Cursor)
		assert.True(t, resp.Poems.PageInfo.HasNextPage)
		assert.True(t, resp.Poems.PageInfo.HasPreviousPage)
		require.NotNil(t, resp.Poems.PageInfo.EndCursor)
		assert.Equal(t, "3", *resp.Poems.PageInfo.EndCursor)
	})

	t.Run("list page query", func(t *testing.T) {
		var resp struct {
			Poems struct {
				Edges []struct {
					Node struct {
						UUID   string
						Title  string
						Author *struct {
							Name    string
							Dynasty string
						}
					}
				}
				PageInfo struct {
					HasNextPage     bool
					HasPreviousPage bool
				}
				TotalCount int
			}
		}

		err := c.Post(page.PoemsQuery, &resp, client.Var("page", 3), client.Var("pageSize", 2))
		require.NoError(t, err)
		require.Len(t, resp.Poems.Edges, 1)
		assert.Nil(t, resp.Poems.Edges[0].Node.Author)
		assert.False(t, resp.Poems.PageInfo.HasNextPage)
	})
}

func TestExecuteSelectionFeatures(t *testing.T) {
	exec, _, repo := setupTestExecutor(t)
	testutil.SeedJingYeSi(t, repo)
	c := createTestClient(exec)

	t.Run("aliases fragments and directives", func(t *testing.T) {
		var resp struct {
			First struct {
				Title  string
				Author struct {
					Name string
				}
			}
			Second struct {
				Typename string `json:"__typename"`
				UUID     string
			}
		}

		query := `query Q($withKind: Boolean!, $uuid: ID!) {
			first: poem(uuid: $uuid) { ...Basic kind @include(if: $withKind) }
			second: poem(uuid: $uuid) { __typename ... on Poem { uuid } title @skip(if: true) }
		}
		fragment Basic on Poem { title author { name } }`

		err := c.Post(query, &resp, client.Var("withKind", false), client.Var("uuid", testutil.JingYeSiUUID))
		require.NoError(t, err)
		assert.Equal(t, "静夜思", resp.First.Title)
		assert.Equal(t, "李白", resp.First.Author.Name)
		assert.Equal(t, "Poem", resp.Second.Typename)
		assert.Equal(t, testutil.JingYeSiUUID, resp.Second.UUID)
	})

	t.Run("response keys keep selection order", func(t *testing.T) {
		resp := exec.Execute(context.Background(), Request{
			Query: `{ poem(uuid: "` + testutil.JingYeSiUUID + `") { uuid title t: title } }`,
		})
		require.Empty(t, resp.Errors)
		assert.Equal(t, `{"poem":{"uuid":"`+testutil.JingYeSiUUID+`","title":"静夜思","t":"静夜思"}}`, string(resp.Data))
	})

	t.Run("operation selected by name", func(t *testing.T) {
		resp := exec.Execute(context.Background(), Request{
			Query:         `query A { poems { totalCount } } query B { poem(uuid: "` + testutil.JingYeSiUUID + `") { kind } }`,
			OperationName: "B",
		})
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"poem":{"kind":"五言绝句"}}`, string(resp.Data))
	})
}

func TestExecuteErrors(t *testing.T) {
	exec, db, repo := setupTestExecutor(t)
	testutil.SeedJingYeSi(t, repo)

	router := testutil.SetupTestGin()
	router.POST("/graphql", Handler(exec))

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "unknown field", body: `{"query":"{ poem(uuid: \"x\") { nope } }"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "mutation", body: `{"query":"mutation { poem }"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing variable", body: `{"query":"query($uuid: ID!) { poem(uuid: $uuid) { title } }"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown operation", body: `{"query":"query A { poems { totalCount } }","operationName":"B"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "empty query", body: `{"query":""}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed body", body: `{"query":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Data   json.RawMessage `json:"data"`
				Errors []struct {
					Message string `json:"message"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Errors)
			assert.True(t, len(resp.Data) == 0 || string(resp.Data) == "null", "rejected requests carry no data")
		})
	}

	t.Run("rejected in-process", func(t *testing.T) {
		resp := exec.Execute(context.Background(), Request{Query: `{ poem(uuid: "x") { nope } }`})
		assert.Nil(t, resp.Data)
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("resolver failure nulls the field", func(t *testing.T) {
		require.NoError(t, db.Close())

		resp := exec.Execute(context.Background(), Request{
			Query: `{ poem(uuid: "` + testutil.JingYeSiUUID + `") { title } }`,
		})
		assert.JSONEq(t, `{"poem":null}`, string(resp.Data))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, ast.Path{ast.PathName("poem")}, resp.Errors[0].Path)

		resp = exec.Execute(context.Background(), Request{Query: `{ poems { totalCount } }`})
		assert.Equal(t, "null", string(resp.Data), "non-null root field propagates to data")
		assert.Len(t, resp.Errors, 1)
	})
}

func TestIntrospection(t *testing.T) {
	exec, _, _ := setupTestExecutor(t)
	c := createTestClient(exec)

	t.Run("schema", func(t *testing.T) {
		var resp struct {
			Schema struct {
				QueryType struct {
					Name string
				}
				MutationType *struct {
					Name string
				}
				Types []struct {
					Name string
					Kind string
				}
				Directives []struct {
					Name      string
					Locations []string
				}
			} `json:"__schema"`
		}

		err := c.Post(`{ __schema { queryType { name } mutationType { name } types { name kind } directives { name locations } } }`, &resp)
		require.NoError(t, err)
		assert.Equal(t, "Query", resp.Schema.QueryType.Name)
		assert.Nil(t, resp.Schema.MutationType)

		kinds := make(map[string]string)
		for _, typ := range resp.Schema.Types {
			kinds[typ.Name] = typ.Kind
		}
		assert.Equal(t, "OBJECT", kinds["Poem"])
		assert.Equal(t, "OBJECT", kinds["Author"])
		assert.Equal(t, "SCALAR", kinds["ID"])
		assert.Equal(t, "ENUM", kinds["__TypeKind"])

		var names []string
		for _, d := range resp.Schema.Directives {
			names = append(names, d.Name)
		}
		assert.Contains(t, names, "include")
		assert.Contains(t, names, "skip")
	})

	t.Run("type", func(t *testing.T) {
		var resp struct {
			Type struct {
				Name   string
				Kind   string
				Fields []struct {
					Name string
					Args []struct {
						Name string
					}
					Type struct {
						Kind   string
						Name   *string
						OfType *struct {
							Name string
						}
					}
				}
			} `json:"__type"`
		}

		err := c.Post(`query($name: String!) {
			__type(name: $name) {
				name kind
				fields { name args { name } type { kind name ofType { name } } }
			}
		}`, &resp, client.Var("name", "Query"))
		require.NoError(t, err)
		assert.Equal(t, "OBJECT", resp.Type.Kind)

		fields := make(map[string]int)
		for i, f := range resp.Type.Fields {
			fields[f.Name] = i
		}
		require.Contains(t, fields, "poem")
		require.Contains(t, fields, "poems")
		assert.NotContains(t, fields, "__schema", "meta fields are not listed")

		poem := resp.Type.Fields[fields["poem"]]
		assert.Equal(t, "OBJECT", poem.Type.Kind)
		require.NotNil(t, poem.Type.Name)
		assert.Equal(t, "Poem", *poem.Type.Name)
		require.NotEmpty(t, poem.Args)
		assert.Equal(t, "uuid", poem.Args[0].Name)
	})

	t.Run("unknown type is null", func(t *testing.T) {
		resp := exec.Execute(context.Background(), Request{Query: `{ __type(name: "Nope") { name } }`})
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"__type":null}`, string(resp.Data))
	})

	t.Run("disabled without the extension", func(t *testing.T) {
		bare := gqlexecutor.New(exec)
		opCtx, errs := bare.CreateOperationContext(context.Background(), &graphql.RawParams{
			Query: `{ __schema { queryType { name } } }`,
		})
		require.Empty(t, errs)

		handler, ctx := bare.DispatchOperation(context.Background(), opCtx)
		resp := handler(ctx)
		require.NotEmpty(t, resp.Errors)
		assert.Contains(t, resp.Errors.Error(), "introspection disabled")
	})
}
