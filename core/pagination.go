package core

type (
	Pagination struct {
		Total    int  `json:"total"`
		Limit    int  `json:"limit"`
		Page     int  `json:"page"`
		Pages    int  `json:"pages"`
		PrevPage bool `json:"prevPage"`
		NextPage bool `json:"nextPage"`
	}

	// Page is the paginated response envelope. Its shape is part of the API
	// contract and must not change.
	Page struct {
		Docs       interface{} `json:"docs"`
		Pagination Pagination  `json:"pagination"`
	}
)

// Paginate wraps docs in the standard pagination envelope.
// pages = ceil(total/limit), never below 1.
func Paginate(docs interface{}, total, limit, page int) Page {
	pages := 1
	if limit > 0 && total >= limit {
		pages = total / limit
		if total%limit != 0 {
			pages++
		}
	}
	return Page{
		Docs: docs,
		Pagination: Pagination{
			Total:    total,
			Limit:    limit,
			Page:     page,
			Pages:    pages,
			PrevPage: page <= pages && page > 1,
			NextPage: page < pages,
		},
	}
}
