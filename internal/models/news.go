package models

// NewsKind — тип запроса к новостному провайдеру; участвует в ключе кэша.
type NewsKind string

const (
	KindEverything NewsKind = "everything"
	KindHeadlines  NewsKind = "headlines"
	KindSources    NewsKind = "sources"
)

// NewsResponse — тело ответа провайдера (newsapi.org).
// Для everything/headlines заполнены Articles и TotalResults, для sources — Sources.
type NewsResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles,omitempty"`
	Sources      []Source  `json:"sources,omitempty"`
}

// ArticleSource — источник статьи в кратком виде.
type ArticleSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article — новостная статья.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      *string       `json:"author"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	URL         string        `json:"url"`
	URLToImage  *string       `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     *string       `json:"content"`
}

// Source — элемент справочника источников.
type Source struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category,omitempty"`
	Language    string `json:"language,omitempty"`
	Country     string `json:"country,omitempty"`
}
