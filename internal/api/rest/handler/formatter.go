package handler

import "github.com/palemoky/chinese-poetry-web/internal/database"

// formatAuthor formats an author for API response, excluding created_at.
func formatAuthor(a *database.Author) map[string]any {
	result := map[string]any{
		"name": a.Name,
	}
	if a.Dynasty != "" {
		result["dynasty"] = a.Dynasty
	}
	if a.BirthYear != nil {
		result["birth_year"] = *a.BirthYear
	}
	if a.DeathYear != nil {
		result["death_year"] = *a.DeathYear
	}
	if a.Intro != nil {
		result["intro"] = *a.Intro
	}
	return result
}

// formatPoem formats a poem for API response.
// Commentary blocks are included only when present.
func formatPoem(p *database.Poem) map[string]any {
	result := map[string]any{
		"uuid":       p.UUID,
		"title":      p.Title,
		"paragraphs": []string(p.Paragraphs),
	}
	if p.Paragraphs == nil {
		result["paragraphs"] = []string{}
	}
	if len(p.Intro) > 0 {
		result["intro"] = []string(p.Intro)
	}
	if len(p.Appreciation) > 0 {
		result["appreciation"] = []string(p.Appreciation)
	}
	if len(p.Translation) > 0 {
		result["translation"] = []string(p.Translation)
	}
	if p.Kind != "" {
		result["kind"] = p.Kind
	}
	if len(p.Annotations) > 0 {
		result["annotations"] = []database.Annotation(p.Annotations)
	}
	if p.Author != nil {
		result["author"] = formatAuthor(p.Author)
	}
	return result
}
