package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextBlockUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TextBlock
	}{
		{name: "null", input: `null`, want: nil},
		{name: "empty string", input: `""`, want: nil},
		{name: "single string", input: `"床前明月光"`, want: TextBlock{"床前明月光"}},
		{name: "list", input: `["一","二"]`, want: TextBlock{"一", "二"}},
		{name: "empty list", input: `[]`, want: nil},
		{name: "list with null and number", input: `["一",null,3]`, want: TextBlock{"一", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Block TextBlock `json:"block"`
			}
			err := json.Unmarshal([]byte(`{"block":`+tt.input+`}`), &got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Block)
			assert.Equal(t, len(tt.want) > 0, got.Block.Present())
		})
	}

	t.Run("object is rejected", func(t *testing.T) {
		var b TextBlock
		assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &b))
	})
}

func TestPoemRecordDecode(t *testing.T) {
	data := `{"poem":{
		"id":"1","uuid":"u-1","title":"静夜思",
		"paragraphs":["床前明月光，疑是地上霜。"],
		"intro":"一首思乡诗",
		"appreciation":["其一","其二"],
		"translation":null,
		"annotations":[{"key":"床","value":"井栏"}],
		"author":{"name":"李白","dynasty":"唐","birthYear":701,"deathYear":null,"intro":null}
	}}`

	var resp PoemResponse
	require.NoError(t, json.Unmarshal([]byte(data), &resp))
	require.NotNil(t, resp.Poem)

	p := resp.Poem
	assert.Equal(t, TextBlock{"一首思乡诗"}, p.Intro)
	assert.Equal(t, TextBlock{"其一", "其二"}, p.Appreciation)
	assert.False(t, p.Translation.Present())
	assert.Equal(t, []Annotation{{Key: "床", Value: "井栏"}}, p.GetAnnotations())
	assert.Equal(t, "701–?", p.Author.Lifespan())
	assert.Equal(t, "", p.Author.GetIntro())
}

func TestNilSafeAccessors(t *testing.T) {
	var p *PoemRecord

	assert.Equal(t, "", p.GetTitle())
	assert.Nil(t, p.GetParagraphs())
	assert.Equal(t, []Annotation{}, p.GetAnnotations())
	assert.Nil(t, p.GetAuthor())
	assert.Equal(t, "", p.GetAuthor().GetName())
	assert.Equal(t, "", p.GetAuthor().GetDynasty())
	assert.Equal(t, "", p.GetAuthor().Lifespan())

	empty := &PoemRecord{}
	assert.Equal(t, []Annotation{}, empty.GetAnnotations())
}

func TestLookup(t *testing.T) {
	withAuthor := &PoemRecord{Title: "静夜思", Author: &Author{Name: "李白", Dynasty: "唐"}}
	noAuthor := &PoemRecord{Title: "无题"}

	tests := []struct {
		name string
		rec  *PoemRecord
		path string
		want string
	}{
		{name: "author dynasty", rec: withAuthor, path: "author.dynasty", want: "唐"},
		{name: "author name", rec: withAuthor, path: "author.name", want: "李白"},
		{name: "missing author", rec: noAuthor, path: "author.name", want: "-"},
		{name: "nil record", rec: nil, path: "author.dynasty", want: "-"},
		{name: "title", rec: noAuthor, path: "title", want: "无题"},
		{name: "unknown path", rec: withAuthor, path: "author.age", want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.rec, tt.path, "-"))
		})
	}
}

func TestLifespan(t *testing.T) {
	birth, death := 712, 770
	assert.Equal(t, "712–770", (&Author{BirthYear: &birth, DeathYear: &death}).Lifespan())
	assert.Equal(t, "?–770", (&Author{DeathYear: &death}).Lifespan())
	assert.Equal(t, "", (&Author{}).Lifespan())
}
