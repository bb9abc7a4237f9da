package models

type Memory struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Date       string   `json:"date"`
	Caption    string   `json:"caption,omitempty"`
	PhotoPaths []string `json:"photo_paths,omitempty"`
}
