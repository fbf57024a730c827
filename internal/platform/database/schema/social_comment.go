package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	ArticleID string
	AuthorID  string
	Body      string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	ArticleID: "articleid",
	AuthorID:  "authorid",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
