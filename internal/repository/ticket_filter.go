package repository

type TicketFilter struct {
	Q          string
	OwnerID    string
	AssigneeID string
	Status     string
	Priority   int
	Category   string
	Limit      int
	Offset     int
}

type UserFilter struct {
	Q      string
	Role   string
	Active *bool
	Limit  int
	Offset int
}

const (
	defaultLimit = 50
	// MaxPageSize is the largest page any List call returns.
	MaxPageSize = 200
)

// Page clamps limit/offset the same way for every backend.
func Page(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxPageSize {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
