package articleresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/adminpayload"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-chi/render"
)

const StatusSuccess = "success"

// ArticleResponse is the response payload for the Article data model, with
// the author reduced to its public fields.
type ArticleResponse struct {
	*model.Article

	Author *adminpayload.AdminPayload `json:"author"`
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	if article == nil {
		return nil
	}

	resp := &ArticleResponse{Article: article}
	if article.Author != nil {
		resp.Author = adminpayload.NewAuthorPayload(article.Author)
	}
	if resp.Paragraphs == nil {
		resp.Paragraphs = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	return resp
}

func NewArticleListResponse(articles []model.Article) []*ArticleResponse {
	list := make([]*ArticleResponse, 0, len(articles))
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	return list
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ListResponse is one page of articles.
type ListResponse struct {
	Status      string             `json:"status"`
	Results     int                `json:"results"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
	Data        []*ArticleResponse `json:"data"`
}

func NewListResponse(page *store.ArticlePage) *ListResponse {
	return &ListResponse{
		Status:      StatusSuccess,
		Results:     len(page.Items),
		Total:       page.Total,
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages,
		Data:        NewArticleListResponse(page.Items),
	}
}

func (lr *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type SingleResponse struct {
	Status string           `json:"status"`
	Data   *ArticleResponse `json:"data"`
}

func NewSingleResponse(article *model.Article) *SingleResponse {
	return &SingleResponse{Status: StatusSuccess, Data: NewArticleResponse(article)}
}

func (sr *SingleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type TrendingAndRecent struct {
	Trending *ArticleResponse   `json:"trending"`
	Recent   []*ArticleResponse `json:"recent"`
}

type TrendingResponse struct {
	Status string            `json:"status"`
	Data   TrendingAndRecent `json:"data"`
}

func NewTrendingResponse(trending *model.Article, recent []model.Article) *TrendingResponse {
	return &TrendingResponse{
		Status: StatusSuccess,
		Data: TrendingAndRecent{
			Trending: NewArticleResponse(trending),
			Recent:   NewArticleListResponse(recent),
		},
	}
}

func (tr *TrendingResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// MessageResponse acknowledges an action without a payload.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewMessageResponse(message string) *MessageResponse {
	return &MessageResponse{Status: StatusSuccess, Message: message}
}

func (mr *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// StatsResponse renders as the bare list of monthly counts.
type StatsResponse []model.MonthlyCount

func (sr StatsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

var _ render.Renderer = StatsResponse(nil)
