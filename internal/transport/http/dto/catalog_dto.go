package dto

type CreateCatalogEntryRequest struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

type CatalogEntryResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type CatalogEntriesResponse struct {
	Items []CatalogEntryResponse `json:"items"`
}
