package memory

import (
	"context"
	"sort"
	"strings"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

var (
	_ repository.Store = (*Store)(nil)
	_ repository.Store = (*txStore)(nil)
)

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

type userRepo struct{ rows rowset[userRow] }

// loginTaken reports rows other than id holding login, compared case-insensitively.
func loginTaken(id, login string) func(row[userRow]) bool {
	return func(r row[userRow]) bool {
		return r.id != id && strings.EqualFold(r.v.user.Login, login)
	}
}

func (r *userRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	if !r.rows.putUnless(u.ID, userRow{user: *u, hash: passwordHash}, loginTaken(u.ID, u.Login)) {
		return repository.ErrDuplicate
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, id string) (*models.User, error) {
	row, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	u := row.user
	return &u, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*models.User, string, error) {
	login = strings.TrimSpace(login)
	for _, row := range r.rows.snapshot() {
		if strings.EqualFold(row.v.user.Login, login) {
			u := row.v.user
			return &u, row.v.hash, nil
		}
	}
	return nil, "", nil
}

func (r *userRepo) Save(ctx context.Context, u *models.User) error {
	row, ok := r.rows.get(u.ID)
	if !ok {
		return repository.ErrNoRows
	}
	row.user = *u
	if !r.rows.putUnless(u.ID, row, loginTaken(u.ID, u.Login)) {
		return repository.ErrDuplicate
	}
	return nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	row, ok := r.rows.get(id)
	if !ok {
		return repository.ErrNoRows
	}
	row.hash = passwordHash
	r.rows.put(id, row)
	return nil
}

func (r *userRepo) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	limit, offset := repository.Page(f.Limit, f.Offset)
	q := models.Fold(f.Q)
	var role models.Role
	if strings.TrimSpace(f.Role) != "" {
		role = models.RoleFromClient(f.Role)
	}

	var all []models.User
	for _, row := range r.rows.snapshot() {
		u := row.v.user
		if q != "" && !strings.Contains(models.Fold(u.Login), q) && !strings.Contains(models.Fold(u.Name), q) {
			continue
		}
		if role != models.RoleUnknown && u.Role != role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		all = append(all, u)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return paginate(all, limit, offset), len(all), nil
}

// -----------------------------------------------------------------------------
// Tickets
// -----------------------------------------------------------------------------

type ticketRepo struct{ rows rowset[models.Ticket] }

func (r *ticketRepo) Create(ctx context.Context, t *models.Ticket) error {
	r.rows.put(t.ID, cloneTicket(*t))
	return nil
}

func (r *ticketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	t = cloneTicket(t)
	return &t, nil
}

func (r *ticketRepo) Save(ctx context.Context, t *models.Ticket) error {
	if _, ok := r.rows.get(t.ID); !ok {
		return repository.ErrNoRows
	}
	r.rows.put(t.ID, cloneTicket(*t))
	return nil
}

func (r *ticketRepo) Delete(ctx context.Context, id string) error {
	r.rows.del(id)
	return nil
}

func (r *ticketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	limit, offset := repository.Page(f.Limit, f.Offset)
	return paginate(r.filter(f), limit, offset), nil
}

func (r *ticketRepo) Count(ctx context.Context, f repository.TicketFilter) (int, error) {
	return len(r.filter(f)), nil
}

func (r *ticketRepo) filter(f repository.TicketFilter) []models.Ticket {
	q := models.Fold(f.Q)
	rows := r.rows.snapshot()
	out := make([]models.Ticket, 0, len(rows))
	// newest inserted first so equal timestamps keep a stable order
	for i := len(rows) - 1; i >= 0; i-- {
		t := rows[i].v
		if f.OwnerID != "" && t.OwnerID != f.OwnerID {
			continue
		}
		if f.AssigneeID != "" && !t.AssignedTo(f.AssigneeID) {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.Priority != 0 && t.Priority != f.Priority {
			continue
		}
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if q != "" && !strings.Contains(models.Fold(t.Title), q) && !strings.Contains(models.Fold(t.Description), q) {
			continue
		}
		out = append(out, cloneTicket(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func cloneTicket(t models.Ticket) models.Ticket {
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		t.AssigneeID = &id
	}
	if t.ClosedAt != nil {
		at := *t.ClosedAt
		t.ClosedAt = &at
	}
	return t
}

// -----------------------------------------------------------------------------
// Comments
// -----------------------------------------------------------------------------

type commentRepo struct{ rows rowset[models.Comment] }

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	r.rows.put(c.ID, *c)
	return nil
}

func (r *commentRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	c, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *commentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, row := range r.rows.snapshot() {
		if row.v.TicketID == ticketID {
			out = append(out, row.v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.rows.del(id)
	return nil
}

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

type notificationRepo struct{ rows rowset[models.Notification] }

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.rows.put(n.ID, cloneNotification(*n))
	return nil
}

func (r *notificationRepo) Get(ctx context.Context, id string) (*models.Notification, error) {
	n, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	n = cloneNotification(n)
	return &n, nil
}

// Save replaces the record in place.
func (r *notificationRepo) Save(ctx context.Context, n *models.Notification) error {
	if _, ok := r.rows.get(n.ID); !ok {
		return repository.ErrNoRows
	}
	r.rows.put(n.ID, cloneNotification(*n))
	return nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	rows := r.rows.snapshot()
	var out []models.Notification
	for i := len(rows) - 1; i >= 0; i-- {
		n := rows[i].v
		if n.RecipientID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, cloneNotification(n))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, row := range r.rows.snapshot() {
		if row.v.RecipientID != userID || row.v.Read {
			continue
		}
		v := row.v
		v.Read = true
		r.rows.put(row.id, v)
		n++
	}
	return n, nil
}

func cloneNotification(n models.Notification) models.Notification {
	if n.TicketID != nil {
		id := *n.TicketID
		n.TicketID = &id
	}
	return n
}

// -----------------------------------------------------------------------------
// Articles
// -----------------------------------------------------------------------------

type articleRepo struct{ rows rowset[models.Article] }

func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	r.rows.put(a.ID, cloneArticle(*a))
	return nil
}

func (r *articleRepo) Get(ctx context.Context, id string) (*models.Article, error) {
	a, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	a = cloneArticle(a)
	return &a, nil
}

func (r *articleRepo) Save(ctx context.Context, a *models.Article) error {
	if _, ok := r.rows.get(a.ID); !ok {
		return repository.ErrNoRows
	}
	r.rows.put(a.ID, cloneArticle(*a))
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	r.rows.del(id)
	return nil
}

func (r *articleRepo) List(ctx context.Context, q, category string) ([]models.Article, error) {
	q = models.Fold(q)
	var out []models.Article
	for _, row := range r.rows.snapshot() {
		a := row.v
		if category != "" && !strings.EqualFold(a.Category, category) {
			continue
		}
		if q != "" && !articleMatches(a, q) {
			continue
		}
		out = append(out, cloneArticle(a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func articleMatches(a models.Article, q string) bool {
	if strings.Contains(models.Fold(a.Title), q) || strings.Contains(models.Fold(a.Summary), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(models.Fold(tag), q) {
			return true
		}
	}
	return false
}

func cloneArticle(a models.Article) models.Article {
	a.Tags = append([]string(nil), a.Tags...)
	a.Keywords = append([]string(nil), a.Keywords...)
	return a
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
