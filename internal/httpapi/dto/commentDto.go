package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentDTO struct {
	Text *string `json:"text"`
}

type CommentResponse struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PubDate  time.Time `json:"pub_date"`
	ReviewID int64     `json:"review"`
}

func CommentFromModel(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:       c.ID,
		Text:     c.Text,
		Author:   c.Author.Username,
		PubDate:  c.PubDate,
		ReviewID: c.ReviewID,
	}
}
