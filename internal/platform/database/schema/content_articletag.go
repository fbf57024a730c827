package schema

// ContentArticleTagTable represents the 'content.article_tag' junction table
type ContentArticleTagTable struct {
	Table     string
	ArticleID string
	TagID     string
}

// ContentArticleTag is the schema definition for content.article_tag
var ContentArticleTag = ContentArticleTagTable{
	Table:     "content.article_tag",
	ArticleID: "articleid",
	TagID:     "tagid",
}
