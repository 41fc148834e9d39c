package adminpayload

import (
	"net/http"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
)

// AdminPayload is the public face of an Admin. It has no password field at
// all, so nothing can leak it by accident.
type AdminPayload struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Avatar    string     `json:"avatar"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func NewAdminPayload(admin *model.Admin) *AdminPayload {
	if admin == nil {
		return nil
	}

	p := &AdminPayload{ID: admin.ID, Username: admin.Username, Avatar: admin.Avatar}
	if !admin.CreatedAt.IsZero() {
		created := admin.CreatedAt
		p.CreatedAt = &created
	}

	return p
}

// NewAuthorPayload is the short form embedded in articles.
func NewAuthorPayload(admin *model.Admin) *AdminPayload {
	if admin == nil {
		return nil
	}

	return &AdminPayload{ID: admin.ID, Username: admin.Username, Avatar: admin.Avatar}
}

func NewAdminListPayload(admins []model.Admin) []*AdminPayload {
	list := make([]*AdminPayload, 0, len(admins))
	for i := range admins {
		list = append(list, NewAdminPayload(&admins[i]))
	}

	return list
}

func (p *AdminPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
