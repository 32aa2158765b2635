// Package testutil provides shared utilities for testing.
package testutil

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/chinese-poetry-web/internal/database"
)

// JingYeSiUUID is the uuid of the poem seeded by SeedJingYeSi
const JingYeSiUUID = "6f1c1f8e-4a57-5d0b-9a52-3f3c4a4b2d11"

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t *testing.T) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// a second pooled connection would open a different, empty database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, database.NewRepository(db)
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// SeedJingYeSi inserts 静夜思 by 李白 with every commentary block filled in.
func SeedJingYeSi(t *testing.T, repo *database.Repository) *database.Poem {
	t.Helper()

	birth, death := 701, 762
	intro := "字太白，号青莲居士"
	authorID, err := repo.GetOrCreateAuthor(&database.Author{
		Name:      "李白",
		Dynasty:   "唐",
		BirthYear: &birth,
		DeathYear: &death,
		Intro:     &intro,
	})
	require.NoError(t, err)

	poem := &database.Poem{
		UUID:         JingYeSiUUID,
		Title:        "静夜思",
		Paragraphs:   []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"},
		Intro:        []string{"此诗描写了秋日夜晚旅居在外的诗人的思乡之情。"},
		Appreciation: []string{"这首诗写的是在寂静的月夜思念家乡的感受。", "诗的前两句是写诗人在作客他乡的特定环境中一刹那间所产生的错觉。"},
		Translation:  []string{"明亮的月光洒在床前，好像地上泛起了一层霜。", "我禁不住抬起头来，看那天窗外空中的明月，不由得低头沉思，想起远方的家乡。"},
		Kind:         "五言绝句",
		Annotations: []database.Annotation{
			{Key: "床", Value: "井栏"},
			{Key: "疑", Value: "好像"},
			{Key: "举头", Value: "抬头"},
		},
		AuthorID: &authorID,
	}
	require.NoError(t, repo.InsertPoem(poem))
	return poem
}

// SeedPoems inserts n minimal poems without authors, titled 诗0..诗n-1.
func SeedPoems(t *testing.T, repo *database.Repository, n int) []*database.Poem {
	t.Helper()

	poems := make([]*database.Poem, n)
	for i := range n {
		poems[i] = &database.Poem{
			UUID:       fmt.Sprintf("00000000-0000-4000-8000-%012d", i),
			Title:      fmt.Sprintf("诗%d", i),
			Paragraphs: []string{"一"},
		}
	}
	require.NoError(t, repo.BatchInsertPoems(poems, 50))
	return poems
}
