package models

type Themes struct {
	Updated      string          `json:"updated"`
	Themes       []ThemeCount    `json:"themes"`
	TopSolutions []SolutionCount `json:"top_solutions"`
}

type ThemeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SolutionCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}
