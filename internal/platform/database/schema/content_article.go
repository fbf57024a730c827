package schema

// ContentArticleTable represents the 'content.article' table
type ContentArticleTable struct {
	Table       string
	ID          string
	Slug        string
	Title       string
	Description string
	Body        string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string
}

// ContentArticle is the schema definition for content.article
var ContentArticle = ContentArticleTable{
	Table:       "content.article",
	ID:          "id",
	Slug:        "slug",
	Title:       "title",
	Description: "description",
	Body:        "body",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
