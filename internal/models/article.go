package models

import "time"

// Article is a knowledge-base entry. Content is markdown.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"titulo"`
	Summary    string    `json:"resumo"`
	Content    string    `json:"conteudo"`
	Category   string    `json:"categoria"`
	Tags       []string  `json:"tags"`
	Keywords   []string  `json:"palavrasChave"`
	AuthorID   string    `json:"autorId"`
	AuthorName string    `json:"autorNome"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Suggestion is a knowledge-base match for free text.
type Suggestion struct {
	ArticleID  string   `json:"artigoId"`
	Title      string   `json:"titulo"`
	Summary    string   `json:"resumo"`
	Confidence float64  `json:"confianca"`
	Matched    []string `json:"palavrasEncontradas"`
}
