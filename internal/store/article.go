package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/SergeyParamoshkin/sportsnews/internal/query"
	"gorm.io/gorm"
)

// Article search matches any of these columns.
var articleSearchFields = []string{"title", "content", "tags"}

type ArticleFilter struct {
	Category   string
	IsTrending *bool
	IsRecent   *bool
}

type ArticlePage struct {
	Items      []model.Article
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ArticleStore struct {
	db *gorm.DB
}

func NewArticleStore(db *gorm.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Create(ctx context.Context, article *model.Article) error {
	err := s.db.WithContext(ctx).Create(article).Error

	return duplicate(err, "slug", article.Slug)
}

func (s *ArticleStore) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}

	return &article, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id string) (*model.Article, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var article model.Article
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}

	return &article, nil
}

// Delete removes the article and returns the removed row.
func (s *ArticleStore) Delete(ctx context.Context, id string) (*model.Article, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var article model.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&article).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Article{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}

	return &article, nil
}

// List applies the exact-match filter, then search, sort and pagination
// from params.
func (s *ArticleStore) List(ctx context.Context, filter ArticleFilter, params url.Values) (*ArticlePage, error) {
	base := s.db.WithContext(ctx).Model(&model.Article{})
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.IsTrending != nil {
		base = base.Where("istrending = ?", *filter.IsTrending)
	}
	if filter.IsRecent != nil {
		base = base.Where("is_recent = ?", *filter.IsRecent)
	}

	shaped := query.New(base, params).Search(articleSearchFields...).Sort().Paginate()

	var items []model.Article
	if err := shaped.Query().Preload("Author").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	total, err := shaped.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	return &ArticlePage{
		Items:      items,
		Total:      total,
		Page:       shaped.Page(),
		Limit:      shaped.Limit(),
		TotalPages: shaped.TotalPages(total),
	}, nil
}

// LatestTrending returns nil when no article is trending.
func (s *ArticleStore) LatestTrending(ctx context.Context) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Preload("Author").
		Where("istrending = ?", true).
		Order("created_at DESC").Order("id DESC").
		First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest trending article: %w", err)
	}

	return &article, nil
}

func (s *ArticleStore) Recent(ctx context.Context, limit int) ([]model.Article, error) {
	var items []model.Article
	err := s.db.WithContext(ctx).Preload("Author").
		Where("is_recent = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}

	return items, nil
}

// CreatedTimes returns the creation time of every article.
func (s *ArticleStore) CreatedTimes(ctx context.Context) ([]time.Time, error) {
	var times []time.Time
	if err := s.db.WithContext(ctx).Model(&model.Article{}).Pluck("created_at", &times).Error; err != nil {
		return nil, fmt.Errorf("article creation times: %w", err)
	}

	return times, nil
}
