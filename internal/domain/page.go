package domain

// PageMeta describes the page of results a search returned.
type PageMeta struct {
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
	Page       int64 `json:"page"`
	PageSize   int64 `json:"page_size"`
}

func NewPageMeta(total int64, page, pageSize int64) *PageMeta {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return &PageMeta{TotalItems: total, TotalPages: pages, Page: page, PageSize: pageSize}
}
