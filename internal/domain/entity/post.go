package entity

import "time"

// MaxPostImageSize bounds the encoded image carried by a post.
const MaxPostImageSize = 5 * 1024 * 1024

type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Post struct {
	ID        string    `json:"id" bson:"_id"`
	Text      string    `json:"text" bson:"text"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Comments  []Comment `json:"comments" bson:"comments"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PostAuthor is the charity block attached to feed items.
type PostAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Verified bool   `json:"verified"`
}

// FeedPost is a post rendered for a feed or a charity's post list.
type FeedPost struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	Image        string      `json:"image,omitempty"`
	Comments     int         `json:"comments"`
	CommentsList []Comment   `json:"commentsList"`
	Likes        int         `json:"likes"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Charity      *PostAuthor `json:"charity,omitempty"`
}

const placeholderAvatar = "/placeholder.svg?height=40&width=40"

// FeedPost renders p; author is nil for a charity's own post list.
func (p *Post) FeedPost(author *Charity) FeedPost {
	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	out := FeedPost{
		ID:           p.ID,
		Text:         p.Text,
		Image:        p.Image,
		Comments:     len(comments),
		CommentsList: comments,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if author != nil {
		out.Charity = &PostAuthor{
			ID:       author.ID,
			Name:     author.Name,
			Email:    author.Email,
			Avatar:   placeholderAvatar,
			Verified: true,
		}
	}
	return out
}
