package models

import "github.com/google/uuid"

type Forum struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Threads     []Thread  `json:"threads"`
}

type Thread struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    User      `json:"author"`
	Posts     []Post    `json:"posts"`
	Timestamp int64     `json:"timestamp"`
}

type Post struct {
	ID        uuid.UUID  `json:"id"`
	Author    User       `json:"author"`
	Content   string     `json:"content"`
	Timestamp int64      `json:"timestamp"`
	ReplyTo   *uuid.UUID `json:"replyTo,omitempty"`
}

// Lightweight variants substitute UserInfo for the full User so bulk initial
// loads don't ship avatar payloads. They are otherwise isomorphic to the
// full shapes.

type ForumLightweight struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Threads     []ThreadLightweight `json:"threads"`
}

type ThreadLightweight struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Author    UserInfo          `json:"author"`
	Posts     []PostLightweight `json:"posts"`
	Timestamp int64             `json:"timestamp"`
}

type PostLightweight struct {
	ID        uuid.UUID  `json:"id"`
	Author    UserInfo   `json:"author"`
	Content   string     `json:"content"`
	Timestamp int64      `json:"timestamp"`
	ReplyTo   *uuid.UUID `json:"replyTo,omitempty"`
}

func (f Forum) Lightweight() ForumLightweight {
	threads := make([]ThreadLightweight, len(f.Threads))
	for i := range f.Threads {
		threads[i] = f.Threads[i].Lightweight()
	}
	return ForumLightweight{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Threads:     threads,
	}
}

func (t Thread) Lightweight() ThreadLightweight {
	posts := make([]PostLightweight, len(t.Posts))
	for i := range t.Posts {
		posts[i] = t.Posts[i].Lightweight()
	}
	return ThreadLightweight{
		ID:        t.ID,
		Title:     t.Title,
		Author:    t.Author.Info(),
		Posts:     posts,
		Timestamp: t.Timestamp,
	}
}

func (p Post) Lightweight() PostLightweight {
	return PostLightweight{
		ID:        p.ID,
		Author:    p.Author.Info(),
		Content:   p.Content,
		Timestamp: p.Timestamp,
		ReplyTo:   p.ReplyTo,
	}
}
