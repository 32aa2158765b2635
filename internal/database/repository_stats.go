package database

// Statistics and counting methods

// CountPoems returns the total number of poems
func (r *Repository) CountPoems() (int, error) {
	var count int64
	err := r.db.Model(&Poem{}).Count(&count).Error
	return int(count), err
}

// CountAuthors returns the total number of authors
func (r *Repository) CountAuthors() (int, error) {
	var count int64
	err := r.db.Model(&Author{}).Count(&count).Error
	return int(count), err
}

// GetStatistics returns overall statistics
func (r *Repository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{
		PoemsByDynasty: []DynastyWithStats{},
		PoemsByKind:    []KindWithStats{},
	}

	var err error
	stats.TotalPoems, err = r.CountPoems()
	if err != nil {
		return nil, err
	}

	stats.TotalAuthors, err = r.CountAuthors()
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&Author{}).
		Select("authors.dynasty AS dynasty, COUNT(DISTINCT authors.id) AS author_count, COUNT(poems.id) AS poem_count").
		Joins("LEFT JOIN poems ON poems.author_id = authors.id").
		Where("authors.dynasty <> ''").
		Group("authors.dynasty").
		Order("poem_count DESC").
		Scan(&stats.PoemsByDynasty).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&Poem{}).
		Select("kind, COUNT(id) AS poem_count").
		Where("kind <> ''").
		Group("kind").
		Order("poem_count DESC").
		Scan(&stats.PoemsByKind).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
