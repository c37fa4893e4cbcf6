package core

// DBOrdering is a single column ordering directive parsed from an
// `ordering` query parameter (e.g. "-created_at").
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListParams is the uniform server-side paging contract shared by every
// list endpoint and repository.
type ListParams struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p *ListParams) Clean() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
