package dto

// PaginatedResponse is the standard payload for every listing endpoint.
// Page is 1-based (skip/limit + 1); Pages is ceil(total/limit) and zero when
// there are no items at all.
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total" example:"25"`
	Page  int         `json:"page" example:"1"`
	Size  int         `json:"size" example:"10"`
	Pages int         `json:"pages" example:"3"`
}
