package database

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

// Write operations for data import

// GetOrCreateAuthor gets or creates an author by name in a thread-safe manner.
// Uses ON CONFLICT to handle concurrent inserts; biography fields are taken from
// the first record that creates the author and are not updated afterwards.
func (r *Repository) GetOrCreateAuthor(author *Author) (int64, error) {
	row := Author{
		Name:      author.Name,
		Dynasty:   author.Dynasty,
		BirthYear: author.BirthYear,
		DeathYear: author.DeathYear,
		Intro:     author.Intro,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}

	// ID stays 0 when the insert was skipped
	if row.ID == 0 {
		if err := r.db.Where("name = ?", author.Name).First(&row).Error; err != nil {
			return 0, err
		}
	}

	return row.ID, nil
}

// InsertPoem inserts a poem into the database
func (r *Repository) InsertPoem(poem *Poem) error {
	return r.db.Omit("Author").Create(poem).Error
}

// BatchInsertPoems inserts multiple poems in batches.
// Poems whose UUID already exists are skipped (ON CONFLICT DO NOTHING).
func (r *Repository) BatchInsertPoems(poems []*Poem, batchSize int) error {
	if len(poems) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100
	}

	return r.db.Omit("Author").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoNothing: true,
	}).CreateInBatches(poems, batchSize).Error
}

// BatchInsertPoemsWithTransaction inserts poems in large transactions to reduce
// fsync overhead.
// transactionSize: number of poems per transaction
// batchSize: number of poems per insert statement
// progress: optional progress container
func (r *Repository) BatchInsertPoemsWithTransaction(poems []*Poem, transactionSize, batchSize int, progress *mpb.Progress) error {
	if len(poems) == 0 {
		return nil
	}

	if transactionSize <= 0 {
		transactionSize = 20000
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	totalTransactions := (len(poems) + transactionSize - 1) / transactionSize

	var poemBar *mpb.Bar
	if progress != nil {
		poemBar = progress.AddBar(int64(len(poems)),
			mpb.PrependDecorators(
				decor.Name("Inserting Poems: ", decor.WC{W: 17, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	logger.Debug("Starting batch insertion",
		zap.Int("poems", len(poems)),
		zap.Int("transactions", totalTransactions),
		zap.Int("batch_size", batchSize),
	)

	for i := 0; i < len(poems); i += transactionSize {
		end := min(i+transactionSize, len(poems))
		transactionChunk := poems[i:end]

		err := r.db.Transaction(func(tx *gorm.DB) error {
			for j := 0; j < len(transactionChunk); j += batchSize {
				batchEnd := min(j+batchSize, len(transactionChunk))
				batch := transactionChunk[j:batchEnd]

				err := tx.Omit("Author").Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "uuid"}},
					DoNothing: true,
				}).Create(&batch).Error
				if err != nil {
					return err
				}

				if poemBar != nil {
					poemBar.IncrBy(len(batch))
				}
			}
			return nil
		})
		if err != nil {
			if poemBar != nil {
				poemBar.Abort(false)
			}
			txNum := i/transactionSize + 1
			return fmt.Errorf("failed to insert transaction %d/%d (poems %d-%d): %w",
				txNum, totalTransactions, i, end, err)
		}
	}

	return nil
}
