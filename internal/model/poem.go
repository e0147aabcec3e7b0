package model

type Poem struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Lines     []string `json:"lines"`
	LineCount int      `json:"linecount,string"`
}
