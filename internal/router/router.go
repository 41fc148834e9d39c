// Package router assembles the HTTP surface: middleware stack, the
// /api/v1 resources and the small root endpoints.
package router

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/article"
	"github.com/SergeyParamoshkin/sportsnews/internal/auth"
	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/football"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const (
	// MaxJSONBytes caps JSON request bodies.
	MaxJSONBytes = 10 << 10

	UploadsPath = "/uploads"
)

type Options struct {
	Development bool
	ClientURL   string
	// RateLimit is requests per hour per client IP on /api. Zero disables it.
	RateLimit int

	Logger    *zap.SugaredLogger
	Metrics   *metrics.Metrics
	Responder *errresponse.Responder

	Auth     *auth.Handler
	Articles *article.Handler
	Matches  *football.Handler

	// Uploads serves locally stored images. Nil when images live elsewhere.
	Uploads http.FileSystem
}

func New(o Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(o.Logger))
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware)
	}
	if o.Development {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	if o.ClientURL != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{o.ClientURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(o.Responder.NotFound)
	r.MethodNotAllowed(o.Responder.MethodNotAllowed)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, r, "API is running...")
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Debugw("ping")
		writeText(w, r, "pong")
	})

	if o.Uploads != nil {
		FileServer(r, UploadsPath, o.Uploads)
	}

	r.Route("/api", func(r chi.Router) {
		if o.RateLimit > 0 {
			r.Use(httprate.Limit(o.RateLimit, time.Hour,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(o.Responder.TooManyRequests),
			))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/article", articleRoutes(o))
			r.Route("/auth", authRoutes(o))
			r.Route("/matches", matchRoutes(o))
		})
	})

	return r
}

func articleRoutes(o Options) func(chi.Router) {
	a, gate := o.Articles, o.Auth.Protect

	return func(r chi.Router) {
		r.Get("/", a.ListArticles)
		r.With(gate).Post("/", a.CreateArticle)
		r.Get("/getTrendingAndRecentPosts", a.TrendingAndRecent)
		r.With(gate).Get("/stats", a.Stats)
		r.With(a.ArticleCtx).Get("/{slug}", a.GetArticle)
		r.With(gate).Delete("/{id}", a.DeleteArticle)
	}
}

func authRoutes(o Options) func(chi.Router) {
	h := o.Auth

	return func(r chi.Router) {
		r.Use(middleware.RequestSize(MaxJSONBytes))

		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.Protect)
			r.Get("/", h.ListAdmins)
			r.Get("/me", h.Me)
			r.Delete("/{id}", h.DeleteAdmin)
		})
	}
}

func matchRoutes(o Options) func(chi.Router) {
	h := o.Matches

	return func(r chi.Router) {
		r.Get("/today", h.MatchesToday)
		r.Get("/week", h.MatchesWeek)
		r.Get("/league/{league}/table", h.LeagueTable)
		r.Get("/live/{matchId}", h.LiveMatchEvents)
		r.Get("/{matchId}", h.MatchDetail)
	}
}

// securityHeaders sets the usual hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return middleware.SetHeader("X-Content-Type-Options", "nosniff")(
		middleware.SetHeader("X-Frame-Options", "SAMEORIGIN")(
			middleware.SetHeader("Referrer-Policy", "no-referrer")(
				middleware.SetHeader("X-DNS-Prefetch-Control", "off")(
					middleware.SetHeader("Strict-Transport-Security", "max-age=15552000; includeSubDomains")(
						middleware.SetHeader("Cross-Origin-Resource-Policy", "cross-origin")(next),
					),
				),
			),
		),
	)
}

func writeText(w http.ResponseWriter, r *http.Request, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(text)); err != nil {
		logging.FromContext(r.Context()).Errorw("write response", "error", err)
	}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		files := http.StripPrefix(pathPrefix, http.FileServer(noDirListing{root}))
		files.ServeHTTP(w, r)
	})
}

// noDirListing hides directory indexes of the uploads folder.
type noDirListing struct {
	root http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.root.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, err
	}
	if stat.IsDir() {
		f.Close()

		return nil, fs.ErrNotExist
	}

	return f, nil
}
