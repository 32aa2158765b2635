package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory database with the schema applied
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection would get its own in-memory database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func createLiBai(t *testing.T, repo *Repository) int64 {
	t.Helper()
	id, err := repo.GetOrCreateAuthor(&Author{
		Name:      "李白",
		Dynasty:   "唐",
		BirthYear: intPtr(701),
		DeathYear: intPtr(762),
		Intro:     strPtr("字太白，号青莲居士"),
	})
	require.NoError(t, err)
	return id
}

func TestGetOrCreateAuthor(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	first := createLiBai(t, repo)
	second, err := repo.GetOrCreateAuthor(&Author{Name: "李白", Dynasty: "宋"})
	require.NoError(t, err)
	assert.Equal(t, first, second, "existing author must be reused")

	count, err := repo.CountAuthors()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetPoemByUUID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	authorID := createLiBai(t, repo)

	poem := &Poem{
		UUID:         "6f1c1f8e-4a57-5d0b-9a52-3f3c4a4b2d11",
		Title:        "静夜思",
		Paragraphs:   []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"},
		Appreciation: []string{"这首诗写的是在寂静的月夜思念家乡的感受。"},
		Kind:         "五言绝句",
		Annotations:  []Annotation{{Key: "床", Value: "井栏"}},
		AuthorID:     &authorID,
	}
	require.NoError(t, repo.InsertPoem(poem))

	t.Run("get existing poem", func(t *testing.T) {
		got, err := repo.GetPoemByUUID(poem.UUID)
		require.NoError(t, err)
		assert.Equal(t, "静夜思", got.Title)
		assert.Len(t, got.Paragraphs, 2)
		assert.Nil(t, got.Intro, "absent block must stay absent")
		assert.Nil(t, got.Translation)
		assert.Equal(t, []string{"这首诗写的是在寂静的月夜思念家乡的感受。"}, []string(got.Appreciation))
		require.Len(t, got.Annotations, 1)
		assert.Equal(t, "井栏", got.Annotations[0].Value)
		require.NotNil(t, got.Author)
		assert.Equal(t, "李白", got.Author.Name)
		assert.Equal(t, 701, *got.Author.BirthYear)
	})

	t.Run("get non-existent poem", func(t *testing.T) {
		got, err := repo.GetPoemByUUID("00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("traditional variant", func(t *testing.T) {
		got, err := repo.WithLang(LangHant).GetPoemByUUID(poem.UUID)
		require.NoError(t, err)
		assert.Equal(t, "靜夜思", got.Title)
		assert.Equal(t, "舉頭望明月，低頭思故鄉。", got.Paragraphs[1])
		assert.Nil(t, got.Intro)
	})
}

func TestListPoems(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	authorID := createLiBai(t, repo)

	for i := range 5 {
		require.NoError(t, repo.InsertPoem(&Poem{
			UUID:       fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i),
			Title:      fmt.Sprintf("诗%d", i),
			Paragraphs: []string{"一"},
			AuthorID:   &authorID,
		}))
	}

	poems, total, err := repo.ListPoems(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, poems, 2)
	assert.Equal(t, "诗2", poems[0].Title)
	assert.Equal(t, "诗3", poems[1].Title)
	assert.NotNil(t, poems[0].Author)
}

func TestBatchInsertPoemsSkipsDuplicates(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	poems := []*Poem{
		{UUID: "11111111-1111-1111-1111-111111111111", Title: "甲", Paragraphs: []string{"一"}},
		{UUID: "22222222-2222-2222-2222-222222222222", Title: "乙", Paragraphs: []string{"二"}},
	}
	require.NoError(t, repo.BatchInsertPoemsWithTransaction(poems, 1, 1, nil))

	dup := []*Poem{
		{UUID: "11111111-1111-1111-1111-111111111111", Title: "甲二", Paragraphs: []string{"三"}},
		{UUID: "33333333-3333-3333-3333-333333333333", Title: "丙", Paragraphs: []string{"四"}},
	}
	require.NoError(t, repo.BatchInsertPoems(dup, 10))

	count, err := repo.CountPoems()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := repo.GetPoemByUUID("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, "甲", got.Title, "duplicate insert must not overwrite")
}

func TestGetStatistics(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	authorID := createLiBai(t, repo)

	require.NoError(t, repo.InsertPoem(&Poem{
		UUID: "55555555-5555-5555-5555-555555555555", Title: "静夜思",
		Paragraphs: []string{"床前明月光"}, Kind: "五言绝句", AuthorID: &authorID,
	}))
	require.NoError(t, repo.InsertPoem(&Poem{
		UUID: "66666666-6666-6666-6666-666666666666", Title: "无题",
		Paragraphs: []string{"一"},
	}))

	stats, err := repo.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPoems)
	assert.Equal(t, 1, stats.TotalAuthors)
	require.Len(t, stats.PoemsByDynasty, 1)
	assert.Equal(t, "唐", stats.PoemsByDynasty[0].Dynasty)
	assert.Equal(t, 1, stats.PoemsByDynasty[0].PoemCount)
	assert.Equal(t, 1, stats.PoemsByDynasty[0].AuthorCount)
	require.Len(t, stats.PoemsByKind, 1)
	assert.Equal(t, "五言绝句", stats.PoemsByKind[0].Kind)
}

func TestCachedRepository(t *testing.T) {
	cached := NewCachedRepository(NewRepository(setupTestDB(t)))

	id1, err := cached.GetOrCreateAuthor(&Author{Name: "杜甫", Dynasty: "唐"})
	require.NoError(t, err)
	id2, err := cached.GetOrCreateAuthor(&Author{Name: "杜甫"})
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, cached.CachedAuthors())
}
