package article

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/articlerequest"
	"github.com/SergeyParamoshkin/sportsnews/internal/imagestore"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

// RecentLimit is how many recent articles the trending summary carries.
const RecentLimit = 3

var (
	ErrImageRequired = apperr.BadRequest("Image file is required")
	ErrNotFound      = apperr.NotFound("Blog not found")
)

// Repository is the persistence the service needs. *store.ArticleStore
// satisfies it.
type Repository interface {
	Create(ctx context.Context, article *model.Article) error
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	Delete(ctx context.Context, id string) (*model.Article, error)
	List(ctx context.Context, filter store.ArticleFilter, params url.Values) (*store.ArticlePage, error)
	LatestTrending(ctx context.Context) (*model.Article, error)
	Recent(ctx context.Context, limit int) ([]model.Article, error)
	CreatedTimes(ctx context.Context) ([]time.Time, error)
}

type Service struct {
	repo     Repository
	images   imagestore.Store
	validate *validator.Validate
}

func NewService(repo Repository, images imagestore.Store) *Service {
	return &Service{
		repo:     repo,
		images:   images,
		validate: NewValidator(),
	}
}

// NewValidator reports field names the way clients send them.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Create validates the form, uploads the image and stores the article
// under author. The uploaded image is removed again when the insert fails.
func (s *Service) Create(ctx context.Context, author *model.Admin, req *articlerequest.ArticleRequest) (*model.Article, error) {
	if author == nil {
		return nil, apperr.Unauthorized("You are not logged in! Please log in to get access.")
	}

	article := &model.Article{
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		Paragraphs:  SplitParagraphs(req.Content),
		Category:    model.Category(req.Category),
		Tags:        req.Tags,
		AuthorID:    author.ID,
		IsTrending:  req.IsTrending,
		IsRecent:    req.IsRecent,
		PublishedAt: time.Now().UTC(),
	}
	if article.Slug == "" {
		article.Slug = slug.Make(article.Title)
	}
	if article.Category == "" {
		article.Category = model.DefaultCategory
	}

	if err := s.validate.StructCtx(ctx, article); err != nil {
		return nil, fmt.Errorf("validate article: %w", err)
	}

	if !req.HasImage() {
		return nil, ErrImageRequired
	}

	imageURL, err := s.images.Upload(ctx, req.ImageName(), req.ImageReader())
	if err != nil {
		return nil, fmt.Errorf("upload article image: %w", err)
	}
	article.Image = imageURL

	if err := s.repo.Create(ctx, article); err != nil {
		s.removeImage(ctx, imageURL)

		return nil, err
	}
	article.Author = author

	return article, nil
}

func (s *Service) List(ctx context.Context, filter store.ArticleFilter, params url.Values) (*store.ArticlePage, error) {
	return s.repo.List(ctx, filter, params)
}

func (s *Service) GetBySlug(ctx context.Context, articleSlug string) (*model.Article, error) {
	article, err := s.repo.GetBySlug(ctx, articleSlug)
	if errors.Is(err, store.ErrArticleNotFound) {
		return nil, apperr.Wrap(ErrNotFound, err)
	}

	return article, err
}

// Delete removes the record first; the stored image is cleaned up after
// and a failure there is only logged.
func (s *Service) Delete(ctx context.Context, id string) error {
	article, err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrArticleNotFound) {
		return apperr.Wrap(ErrNotFound, err)
	}
	if err != nil {
		return err
	}

	s.removeImage(ctx, article.Image)

	return nil
}

// TrendingAndRecent returns the newest trending article (nil when there is
// none) and up to RecentLimit newest recent ones.
func (s *Service) TrendingAndRecent(ctx context.Context) (*model.Article, []model.Article, error) {
	trending, err := s.repo.LatestTrending(ctx)
	if err != nil {
		return nil, nil, err
	}

	recent, err := s.repo.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, nil, err
	}

	return trending, recent, nil
}

// Stats counts articles per creation month, ordered January to December.
// Months without articles are left out.
func (s *Service) Stats(ctx context.Context) ([]model.MonthlyCount, error) {
	times, err := s.repo.CreatedTimes(ctx)
	if err != nil {
		return nil, err
	}

	return MonthlyCounts(times), nil
}

func (s *Service) removeImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}

	if err := s.images.Delete(context.WithoutCancel(ctx), imageURL); err != nil {
		logging.FromContext(ctx).Warnw("delete article image", "image", imageURL, "error", err)
	}
}

// SplitParagraphs breaks content into sentences on '.', dropping empty
// pieces and keeping the terminating period.
func SplitParagraphs(content string) []string {
	paragraphs := []string{}
	for _, part := range strings.Split(content, ".") {
		if part = strings.TrimSpace(part); part != "" {
			paragraphs = append(paragraphs, part+".")
		}
	}

	return paragraphs
}

func MonthlyCounts(times []time.Time) []model.MonthlyCount {
	counts := make(map[time.Month]int64)
	for _, t := range times {
		counts[t.UTC().Month()]++
	}

	months := make([]time.Month, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	stats := make([]model.MonthlyCount, 0, len(months))
	for _, m := range months {
		stats = append(stats, model.MonthlyCount{Month: m.String(), Count: counts[m]})
	}

	return stats
}
