package articlerequest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
)

// MaxUploadBytes caps the whole multipart body of a create request.
const MaxUploadBytes = 10 << 20

const imageField = "image"

// ArticleRequest is the create-article form. Booleans are only true when
// sent as the literal "true"; tags are comma separated.
type ArticleRequest struct {
	Title      string
	Slug       string
	Content    string
	Category   string
	Tags       []string
	IsTrending bool
	IsRecent   bool

	Image       multipart.File
	ImageHeader *multipart.FileHeader
}

// Parse reads a multipart (or url-encoded) create form. A missing image is
// not an error here; the caller decides.
func Parse(w http.ResponseWriter, r *http.Request) (*ArticleRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, err
			}

			return nil, apperr.Wrap(apperr.BadRequest("Invalid article form"), err)
		}
		if err := r.ParseForm(); err != nil {
			return nil, apperr.Wrap(apperr.BadRequest("Invalid article form"), err)
		}
	}

	a := &ArticleRequest{
		Title:      strings.TrimSpace(r.FormValue("title")),
		Slug:       strings.TrimSpace(r.FormValue("slug")),
		Content:    r.FormValue("content"),
		Category:   strings.TrimSpace(r.FormValue("category")),
		Tags:       splitTags(r.FormValue("tags")),
		IsTrending: r.FormValue("istrending") == "true",
		IsRecent:   r.FormValue("isRecent") == "true",
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile(imageField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return nil, apperr.Wrap(apperr.BadRequest("Invalid image upload"), err)
		default:
			a.Image = file
			a.ImageHeader = header
		}
	}

	return a, nil
}

func (a *ArticleRequest) HasImage() bool {
	return a.Image != nil
}

func (a *ArticleRequest) ImageName() string {
	if a.ImageHeader == nil {
		return ""
	}

	return a.ImageHeader.Filename
}

func (a *ArticleRequest) ImageReader() io.Reader {
	if a.Image == nil {
		return nil
	}

	return a.Image
}

func (a *ArticleRequest) Close() error {
	if a.Image == nil {
		return nil
	}

	return a.Image.Close()
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}
