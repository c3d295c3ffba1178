package models

// Item is the unauthenticated demo resource.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
