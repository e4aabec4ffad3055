package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

type ForumTable struct {
	mu     sync.RWMutex
	forums []models.Forum
	rec    Recorder
}

func newForumTable(rec Recorder) *ForumTable {
	return &ForumTable{rec: rec}
}

// Seed installs the initial forum set on first run.
func (t *ForumTable) Seed(forums []models.Forum) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.forums) == 0 {
		t.forums = forums
		for i := range t.forums {
			t.record(&t.forums[i])
		}
	}
}

// Restore installs a persisted forum without re-recording it.
func (t *ForumTable) Restore(forum models.Forum) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forums = append(t.forums, forum)
}

func (t *ForumTable) Create(name, description string) models.Forum {
	t.mu.Lock()
	defer t.mu.Unlock()

	forum := models.Forum{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Threads:     []models.Thread{},
	}
	t.forums = append(t.forums, forum)
	t.record(&t.forums[len(t.forums)-1])
	return forum
}

// List returns the lightweight projection used for bulk initial load.
func (t *ForumTable) List() []models.ForumLightweight {
	t.mu.RLock()
	defer t.mu.RUnlock()

	forums := make([]models.ForumLightweight, len(t.forums))
	for i := range t.forums {
		forums[i] = t.forums[i].Lightweight()
	}
	return forums
}

func (t *ForumTable) CreateThread(forumID uuid.UUID, title, content string, author models.User) (models.Thread, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.forums {
		if t.forums[i].ID != forumID {
			continue
		}
		now := time.Now().UnixMilli()
		thread := models.Thread{
			ID:        uuid.New(),
			Title:     title,
			Author:    author,
			Timestamp: now,
			Posts: []models.Post{{
				ID:        uuid.New(),
				Author:    author,
				Content:   content,
				Timestamp: now,
			}},
		}
		t.forums[i].Threads = append(t.forums[i].Threads, thread)
		t.record(&t.forums[i])
		return thread, nil
	}
	return models.Thread{}, ErrNotFound
}

// CreatePost appends a post to a thread. A replyTo id must reference a
// sibling post within the same thread; replies form a DAG, not a chain.
// The thread author's id comes back with the post so the caller can notify
// them.
func (t *ForumTable) CreatePost(threadID uuid.UUID, content string, replyTo *uuid.UUID, author models.User) (models.Post, uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	forum, thread := t.findThread(threadID)
	if thread == nil {
		return models.Post{}, uuid.Nil, ErrNotFound
	}

	if replyTo != nil {
		found := false
		for i := range thread.Posts {
			if thread.Posts[i].ID == *replyTo {
				found = true
				break
			}
		}
		if !found {
			return models.Post{}, uuid.Nil, ErrBadReplyTarget
		}
	}

	post := models.Post{
		ID:        uuid.New(),
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		ReplyTo:   replyTo,
	}
	thread.Posts = append(thread.Posts, post)
	t.record(forum)
	return post, thread.Author.ID, nil
}

// DeletePost removes a post (moderation path). The author id of the removed
// post is returned for the audit log.
func (t *ForumTable) DeletePost(postID uuid.UUID) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for fi := range t.forums {
		for ti := range t.forums[fi].Threads {
			posts := t.forums[fi].Threads[ti].Posts
			for pi := range posts {
				if posts[pi].ID == postID {
					author := posts[pi].Author.ID
					t.forums[fi].Threads[ti].Posts = append(posts[:pi], posts[pi+1:]...)
					t.record(&t.forums[fi])
					return author, nil
				}
			}
		}
	}
	return uuid.Nil, ErrNotFound
}

func (t *ForumTable) DeleteThread(threadID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for fi := range t.forums {
		threads := t.forums[fi].Threads
		for ti := range threads {
			if threads[ti].ID == threadID {
				t.forums[fi].Threads = append(threads[:ti], threads[ti+1:]...)
				t.record(&t.forums[fi])
				return nil
			}
		}
	}
	return ErrNotFound
}

// PostAuthor resolves who wrote a post, for moderation permission checks.
func (t *ForumTable) PostAuthor(postID uuid.UUID) (uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for fi := range t.forums {
		for ti := range t.forums[fi].Threads {
			for _, post := range t.forums[fi].Threads[ti].Posts {
				if post.ID == postID {
					return post.Author.ID, nil
				}
			}
		}
	}
	return uuid.Nil, ErrNotFound
}

func (t *ForumTable) findThread(threadID uuid.UUID) (*models.Forum, *models.Thread) {
	for fi := range t.forums {
		for ti := range t.forums[fi].Threads {
			if t.forums[fi].Threads[ti].ID == threadID {
				return &t.forums[fi], &t.forums[fi].Threads[ti]
			}
		}
	}
	return nil, nil
}

func (t *ForumTable) record(forum *models.Forum) {
	if t.rec != nil {
		t.rec.SaveForum(cloneForum(forum))
	}
}

func cloneForum(f *models.Forum) models.Forum {
	cp := *f
	cp.Threads = make([]models.Thread, len(f.Threads))
	for i := range f.Threads {
		cp.Threads[i] = f.Threads[i]
		cp.Threads[i].Posts = append([]models.Post(nil), f.Threads[i].Posts...)
	}
	return cp
}
