package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

const (
	// shorter texts carry too little signal to match against
	minSuggestText = 20
	maxConfidence  = 0.99
	// shorter title words are mostly articles and prepositions
	minTitleWord = 5
)

type ArticleService struct {
	store  repository.Store
	md     goldmark.Markdown
	policy *bluemonday.Policy
	log    zerolog.Logger
	now    func() time.Time
}

func NewArticleService(store repository.Store, log zerolog.Logger) *ArticleService {
	return &ArticleService{
		store:  store,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		log:    log,
		now:    time.Now,
	}
}

// ArticleView is an article with its markdown rendered to sanitised HTML.
type ArticleView struct {
	models.Article
	HTML string `json:"html"`
}

type ArticleInput struct {
	Title    string
	Summary  string
	Content  string
	Category string
	Tags     []string
	Keywords []string
}

func (s *ArticleService) List(ctx context.Context, actor Actor, q, category string) ([]models.Article, error) {
	if err := actor.require(access.KnowledgeRead); err != nil {
		return nil, err
	}
	return s.store.Articles().List(ctx, q, category)
}

func (s *ArticleService) Get(ctx context.Context, actor Actor, id string) (*ArticleView, error) {
	if err := actor.require(access.KnowledgeRead); err != nil {
		return nil, err
	}
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	html, err := s.render(a.Content)
	if err != nil {
		return nil, err
	}
	return &ArticleView{Article: *a, HTML: html}, nil
}

func (s *ArticleService) get(ctx context.Context, id string) (*models.Article, error) {
	a, err := s.store.Articles().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("article", id)
	}
	return a, nil
}

func (s *ArticleService) render(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering article: %w", err)
	}
	return s.policy.Sanitize(buf.String()), nil
}

func (s *ArticleService) Create(ctx context.Context, actor Actor, in ArticleInput) (*models.Article, error) {
	if err := actor.require(access.KnowledgeManage); err != nil {
		return nil, err
	}
	author, err := s.store.Users().Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, notFound("user", actor.ID)
	}
	return s.create(ctx, author, in)
}

func (s *ArticleService) create(ctx context.Context, author *models.User, in ArticleInput) (*models.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	a := &models.Article{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  now,
	}
	in.apply(a, now)
	if err := s.store.Articles().Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}
	return a, nil
}

func (s *ArticleService) Update(ctx context.Context, actor Actor, id string, in ArticleInput) (*models.Article, error) {
	if err := actor.require(access.KnowledgeManage); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(a, s.now().UTC())
	if err := s.store.Articles().Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.KnowledgeManage); err != nil {
		return err
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.store.Articles().Delete(ctx, id)
}

// Suggest ranks articles whose keywords occur in text. Confidence is the share of an
// article's keywords found, capped below certainty.
func (s *ArticleService) Suggest(ctx context.Context, text string, limit int) ([]models.Suggestion, error) {
	folded := models.Fold(text)
	if len([]rune(folded)) < minSuggestText {
		return nil, nil
	}
	articles, err := s.store.Articles().List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	var out []models.Suggestion
	for _, a := range articles {
		terms := suggestionTerms(a)
		if len(terms) == 0 {
			continue
		}
		var matched []string
		for _, k := range terms {
			if strings.Contains(folded, models.Fold(k)) {
				matched = append(matched, k)
			}
		}
		if len(matched) == 0 {
			continue
		}
		conf := math.Min(float64(len(matched))/float64(len(terms)), maxConfidence)
		out = append(out, models.Suggestion{
			ArticleID:  a.ID,
			Title:      a.Title,
			Summary:    a.Summary,
			Confidence: math.Round(conf*100) / 100,
			Matched:    matched,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return len(out[i].Matched) > len(out[j].Matched)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// suggestionTerms is what free text is matched against: keywords, then tags, then
// title words, deduplicated after folding.
func suggestionTerms(a models.Article) []string {
	var words []string
	for _, w := range strings.FieldsFunc(models.Fold(a.Title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		if len([]rune(w)) >= minTitleWord {
			words = append(words, w)
		}
	}
	all := make([]string, 0, len(a.Keywords)+len(a.Tags)+len(words))
	all = append(all, a.Keywords...)
	all = append(all, a.Tags...)
	return cleanTerms(append(all, words...))
}

func (in ArticleInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return invalid("title and content are required")
	}
	return nil
}

func (in ArticleInput) apply(a *models.Article, now time.Time) {
	a.Title = strings.TrimSpace(in.Title)
	a.Summary = strings.TrimSpace(in.Summary)
	a.Content = in.Content
	a.Category = strings.TrimSpace(in.Category)
	a.Tags = cleanTerms(in.Tags)
	a.Keywords = cleanTerms(in.Keywords)
	a.UpdatedAt = now
}

func cleanTerms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[models.Fold(t)] {
			continue
		}
		seen[models.Fold(t)] = true
		out = append(out, t)
	}
	return out
}
