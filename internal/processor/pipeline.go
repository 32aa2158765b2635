package processor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/chinese"
	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/loader"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100 // Maximum number of errors to collect

	// Sample error display limit
	SampleErrorCount = 5 // Number of sample errors to show
)

var errEmptyPoem = errors.New("poem has no paragraphs")

// getOptimalConfig returns optimal configuration based on system resources
func getOptimalConfig() (workBuffer, resultBuffer, errorBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	// Low-end (CI): 2 cores  → conservative settings
	// Mid-range:    4-8 cores → balanced settings
	// High-end:     10+ cores → aggressive settings
	switch {
	case cpuCount <= 2:
		return 50, 1000, 50, 200, 50, 300
	case cpuCount <= 4:
		return 75, 2000, 75, 300, 100, 500
	case cpuCount <= 8:
		return 100, 3000, 100, 400, 150, 700
	default:
		return 300, 5000, 300, 500, 200, 1000
	}
}

// Stats summarizes one import run
type Stats struct {
	Total      int64
	Inserted   int64 // handed to the store, which skips UUIDs stored by an earlier run
	Duplicates int64
	Failed     int64
	Errors     []error
}

// Processor handles concurrent poetry data processing
type Processor struct {
	repo         database.RepositoryInterface
	authors      *database.CachedRepository
	workers      int
	batchSize    int // Base batch size for database insertion
	minBatchSize int // Minimum batch size (for high pressure)
	maxBatchSize int // Maximum batch size (for low pressure)
	output       io.Writer
	log          *zap.Logger
}

// NewProcessor creates a new processor whose author lookups go through a
// cached repository
func NewProcessor(repo *database.Repository, workers int) *Processor {
	cached := database.NewCachedRepository(repo)
	p := newProcessor(cached, workers)
	p.authors = cached
	return p
}

func newProcessor(store database.RepositoryInterface, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	_, _, _, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	return &Processor{
		repo:         store,
		workers:      workers,
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
		output:       os.Stdout,
		log:          logger.With(zap.String("component", "processor")),
	}
}

// SetBatchSize sets the batch size for database insertion. The dynamic
// bounds are widened so the base size always lies between them.
func (p *Processor) SetBatchSize(size int) {
	if size <= 0 {
		return
	}
	p.batchSize = size
	p.minBatchSize = min(p.minBatchSize, size)
	p.maxBatchSize = max(p.maxBatchSize, size)
}

// SetOutput redirects the progress bars; nil silences them
func (p *Processor) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	p.output = w
}

// Process normalizes the poems with concurrent workers and inserts them in
// batches. Poems that fail to process are counted and reported in the
// returned stats; only a failed insert aborts the run.
func (p *Processor) Process(poems []loader.PoemData) (*Stats, error) {
	total := len(poems)
	if total == 0 {
		p.log.Warn("No poems to process")
		return &Stats{}, nil
	}

	p.log.Info("Processing poems",
		zap.Int("total", total),
		zap.Int("workers", p.workers),
		zap.Int("batch_size", p.batchSize),
	)

	progress := mpb.New(
		mpb.WithOutput(p.output),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Processing: ", decor.WC{W: 12, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f poems/s", decor.WC{W: 12}),
		),
	)

	workBuffer, resultBuffer, errorBuffer, _, _, _ := getOptimalConfig()

	workCh := make(chan loader.PoemData, workBuffer)
	resultCh := make(chan *database.Poem, resultBuffer)
	errorCh := make(chan error, errorBuffer)
	var wg sync.WaitGroup

	var errorCount atomic.Int64

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for data := range workCh {
				poem, err := p.processPoem(data)
				bar.Increment()
				if err != nil {
					errorCount.Add(1)
					// Non-blocking error recording
					select {
					case errorCh <- fmt.Errorf("worker %d: %s (%s): %w", workerID, data.Title, data.Source, err):
					default:
					}
					continue
				}
				resultCh <- poem
			}
		}(i)
	}

	stats := &Stats{Total: int64(total)}

	insertDone := make(chan error, 1)
	go func() {
		insertDone <- p.batchInserter(resultCh, stats)
	}()

	go func() {
		for _, poem := range poems {
			workCh <- poem
		}
		close(workCh)
	}()

	wg.Wait()
	close(resultCh)

	insertErr := <-insertDone
	close(errorCh)

	if insertErr != nil {
		bar.Abort(false)
	}
	progress.Wait()

	for err := range errorCh {
		stats.Errors = append(stats.Errors, err)
		if len(stats.Errors) >= MaxErrorsToCollect {
			break
		}
	}
	stats.Failed = errorCount.Load()

	if insertErr != nil {
		return stats, fmt.Errorf("batch insertion failed: %w", insertErr)
	}

	if stats.Failed > 0 {
		p.log.Warn("Some poems failed to process",
			zap.Int64("failed", stats.Failed),
			zap.Int64("inserted", stats.Inserted),
		)
		for i := 0; i < min(len(stats.Errors), SampleErrorCount); i++ {
			p.log.Warn("Sample error", zap.Int("n", i+1), zap.Error(stats.Errors[i]))
		}
		return stats, nil
	}

	fields := []zap.Field{
		zap.Int64("inserted", stats.Inserted),
		zap.Int64("duplicates", stats.Duplicates),
	}
	if p.authors != nil {
		fields = append(fields, zap.Int("authors", p.authors.CachedAuthors()))
	}
	p.log.Info("Processed all poems", fields...)
	return stats, nil
}

// batchInserter collects poems and inserts them in batches with dynamic sizing.
// It adjusts the batch size to channel pressure and drops poems whose UUID
// was already seen in this run.
func (p *Processor) batchInserter(resultCh <-chan *database.Poem, stats *Stats) error {
	batch := make([]*database.Poem, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize
	seen := make(map[string]struct{})

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.repo.BatchInsertPoemsWithTransaction(batch, len(batch), len(batch), nil); err != nil {
			return fmt.Errorf("failed to insert batch of %d poems: %w", len(batch), err)
		}
		stats.Inserted += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for poem := range resultCh {
		if _, dup := seen[poem.UUID]; dup {
			stats.Duplicates++
			continue
		}
		seen[poem.UUID] = struct{}{}
		batch = append(batch, poem)

		utilization := float64(len(resultCh)) / float64(cap(resultCh))
		newBatchSize := p.calculateBatchSize(utilization, currentBatchSize)
		if newBatchSize != currentBatchSize {
			p.log.Debug("Adjusting batch size",
				zap.Float64("utilization", utilization),
				zap.Int("from", currentBatchSize),
				zap.Int("to", newBatchSize),
			)
		}
		currentBatchSize = newBatchSize

		if len(batch) >= currentBatchSize {
			if err := flush(); err != nil {
				drain(resultCh)
				return err
			}
		}
	}

	return flush()
}

// drain discards the remaining results so workers never block on a dead inserter
func drain(resultCh <-chan *database.Poem) {
	for range resultCh {
	}
}

// calculateBatchSize determines the optimal batch size based on channel utilization
// Returns the adjusted batch size, or keeps current size for smooth transitions
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		return p.minBatchSize
	case utilization >= channelPressureMedium:
		return p.batchSize
	case utilization <= channelPressureLow:
		return p.maxBatchSize
	default:
		return currentSize
	}
}

func (p *Processor) processPoem(data loader.PoemData) (*database.Poem, error) {
	title, err := chinese.ToSimplified(chinese.NormalizeText(data.Title))
	if err != nil {
		return nil, fmt.Errorf("failed to convert title: %w", err)
	}

	rhythmic, err := chinese.ToSimplified(chinese.NormalizeText(data.Rhythmic))
	if err != nil {
		return nil, fmt.Errorf("failed to convert rhythmic: %w", err)
	}

	paragraphs, err := normalizeLines(data.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to convert paragraphs: %w", err)
	}
	if len(paragraphs) == 0 {
		return nil, errEmptyPoem
	}

	intro, err := normalizeLines(data.Intro)
	if err != nil {
		return nil, fmt.Errorf("failed to convert intro: %w", err)
	}
	appreciation, err := normalizeLines(data.Appreciation)
	if err != nil {
		return nil, fmt.Errorf("failed to convert appreciation: %w", err)
	}
	translation, err := normalizeLines(data.Translation)
	if err != nil {
		return nil, fmt.Errorf("failed to convert translation: %w", err)
	}

	kind, err := chinese.ToSimplified(chinese.NormalizeText(data.Kind))
	if err != nil {
		return nil, fmt.Errorf("failed to convert kind: %w", err)
	}

	annotations := make([]database.Annotation, 0, len(data.Annotations))
	for _, a := range data.Annotations {
		key, err := chinese.ToSimplified(chinese.NormalizeText(a.Key))
		if err != nil {
			return nil, fmt.Errorf("failed to convert annotation: %w", err)
		}
		if key == "" {
			continue
		}
		value, err := chinese.ToSimplified(chinese.NormalizeText(a.Value))
		if err != nil {
			return nil, fmt.Errorf("failed to convert annotation: %w", err)
		}
		annotations = append(annotations, database.Annotation{Key: key, Value: value})
	}

	// For 词/曲 the tune name leads: "词牌名·副标题" or just "词牌名"
	finalTitle := title
	if rhythmic != "" && rhythmic != title {
		if title != "" {
			var builder strings.Builder
			builder.WriteString(rhythmic)
			builder.WriteString("·")
			builder.WriteString(title)
			finalTitle = builder.String()
		} else {
			finalTitle = rhythmic
		}
	}

	var authorID *int64
	var authorName string
	if data.AuthorName() != "" {
		author, err := p.resolveAuthor(data)
		if err != nil {
			return nil, err
		}
		authorID = &author.ID
		authorName = author.Name
	}

	uuid := strings.ToLower(strings.TrimSpace(data.UUID))
	if !chinese.IsUUID(uuid) {
		uuid = chinese.StablePoemUUID(finalTitle, authorName, paragraphs)
	}

	return &database.Poem{
		UUID:         uuid,
		Title:        finalTitle,
		Paragraphs:   paragraphs,
		Intro:        intro,
		Appreciation: appreciation,
		Translation:  translation,
		Kind:         kind,
		Annotations:  annotations,
		AuthorID:     authorID,
	}, nil
}

// resolveAuthor normalizes the poem's author and returns its stored row
func (p *Processor) resolveAuthor(data loader.PoemData) (*database.Author, error) {
	src := data.Author.Author

	name, err := chinese.ToSimplified(chinese.NormalizeText(src.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to convert author: %w", err)
	}
	dynasty, err := chinese.ToSimplified(chinese.NormalizeText(src.Dynasty))
	if err != nil {
		return nil, fmt.Errorf("failed to convert dynasty: %w", err)
	}

	author := &database.Author{
		Name:      name,
		Dynasty:   dynasty,
		BirthYear: src.BirthYear,
		DeathYear: src.DeathYear,
	}
	if intro := chinese.NormalizePointer(&src.Intro); intro != nil {
		simplified, err := chinese.ToSimplified(*intro)
		if err != nil {
			return nil, fmt.Errorf("failed to convert author intro: %w", err)
		}
		author.Intro = &simplified
	}

	id, err := p.repo.GetOrCreateAuthor(author)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create author: %w", err)
	}
	author.ID = id
	return author, nil
}

// normalizeLines trims every line, drops empty ones and converts the rest to
// simplified Chinese. An absent block stays nil.
func normalizeLines(lines []string) ([]string, error) {
	return chinese.LinesToSimplified(chinese.NormalizeTextArray(lines))
}
