package models

// MatchView is the joined projection returned by the match listing: the match
// itself plus property, buyer and seller display summaries. Credential-ish
// fields never appear here because the summary models do not carry them.
type MatchView struct {
	Match
	Property *Property `json:"property"`
	Buyer    *Buyer    `json:"buyer"`
	Seller   *Seller   `json:"seller"`
}

// PaginationMeta describes one page of a listing response.
type PaginationMeta struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}
