package model

type Faculty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
