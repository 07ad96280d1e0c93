// Package fixtures holds the embedded documents used to seed and reset the
// store, and converts them into domain snapshots.
package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed seed.json clear.json fixture.schema.json
var files embed.FS

// Names of the embedded fixtures.
const (
	Seed  = "seed.json"
	Clear = "clear.json"
)

const schemaURL = "https://github.com/msomdec/forumvotes/fixture.schema.json"

type Fixture struct {
	Users []User `json:"users"`
	Posts []Post `json:"posts"`
	Votes []Vote `json:"votes"`
}

// User carries a plaintext password; it is hashed when converted.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt int64     `json:"createdAt"`
	Comments  []Comment `json:"comments"`
}

type Comment struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// Vote targets a post, or a comment of that post when CommentID is set.
type Vote struct {
	PostID    int64  `json:"postId"`
	CommentID int64  `json:"commentId"`
	UserID    int64  `json:"userId"`
	Vote      string `json:"vote"`
	CreatedAt int64  `json:"createdAt"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	data, err := files.ReadFile("fixture.schema.json")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Load reads and validates one of the embedded fixtures.
func Load(name string) (*Fixture, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", name, err)
	}
	return f, nil
}

// Parse validates data against the fixture schema and decodes it.
func Parse(data []byte) (*Fixture, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// Snapshot converts the fixture into store rows, hashing every password
// with hash. Missing timestamps become now.
func (f *Fixture) Snapshot(hash func(password string) (string, error)) (*domain.Snapshot, error) {
	now := time.Now().UTC()
	at := func(ms int64) time.Time {
		if ms == 0 {
			return now
		}
		return time.UnixMilli(ms).UTC()
	}

	snap := &domain.Snapshot{}
	for _, u := range f.Users {
		h, err := hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for user %d: %w", u.ID, err)
		}
		snap.Users = append(snap.Users, domain.User{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: h,
			CreatedAt:    now,
		})
	}

	for _, p := range f.Posts {
		post := domain.Post{
			ID:        p.ID,
			UserID:    p.UserID,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: at(p.CreatedAt),
		}
		for _, c := range p.Comments {
			post.Comments = append(post.Comments, domain.Comment{
				ID:        c.ID,
				PostID:    p.ID,
				UserID:    c.UserID,
				Text:      c.Text,
				CreatedAt: at(c.CreatedAt),
			})
		}
		snap.Posts = append(snap.Posts, post)
	}

	for _, v := range f.Votes {
		target := domain.PostTarget(v.PostID)
		if v.CommentID != 0 {
			target = domain.CommentTarget(v.PostID, v.CommentID)
		}
		snap.Votes = append(snap.Votes, domain.Vote{
			Target:    target,
			UserID:    v.UserID,
			Direction: domain.Direction(v.Vote),
			CreatedAt: at(v.CreatedAt),
		})
	}
	return snap, nil
}
