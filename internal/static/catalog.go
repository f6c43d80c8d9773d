// Package static serves a read-only set of thoughts loaded once at startup.
// Its thoughts use small integer ids and never mix with stored thoughts.
package static

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotFound is returned when no thought has the requested id
var ErrNotFound = errors.New("thought not found")

// Thought is a record of the static dataset
type Thought struct {
	ID        int       `json:"_id"`
	Message   string    `json:"message"`
	Hearts    int       `json:"hearts"`
	CreatedAt time.Time `json:"createdAt"`
}

// ObjectGetter is the subset of the S3 client used to fetch the dataset
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Catalog holds the dataset sorted newest first
type Catalog struct {
	thoughts []Thought
	byID     map[int]int
}

// NewCatalog indexes thoughts. Duplicate ids are rejected.
func NewCatalog(thoughts []Thought) (*Catalog, error) {
	sorted := make([]Thought, len(thoughts))
	copy(sorted, thoughts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	byID := make(map[int]int, len(sorted))
	for i, t := range sorted {
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate thought id %d", t.ID)
		}
		byID[t.ID] = i
	}
	return &Catalog{thoughts: sorted, byID: byID}, nil
}

// Parse decodes a JSON array of thoughts
func Parse(r io.Reader) (*Catalog, error) {
	var thoughts []Thought
	if err := json.NewDecoder(r).Decode(&thoughts); err != nil {
		return nil, fmt.Errorf("failed to parse thoughts: %w", err)
	}
	return NewCatalog(thoughts)
}

// Load reads the dataset from a local path or, for s3://bucket/key
// sources, through getter.
func Load(ctx context.Context, source string, getter ObjectGetter) (*Catalog, error) {
	if bucket, key, ok := ParseS3URL(source); ok {
		if getter == nil {
			return nil, fmt.Errorf("no s3 client for %s", source)
		}
		out, err := getter.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		defer out.Body.Close()
		return Parse(out.Body)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseS3URL splits s3://bucket/key
func ParseS3URL(source string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Recent returns up to limit thoughts, newest first
func (c *Catalog) Recent(limit int) []Thought {
	if limit > len(c.thoughts) {
		limit = len(c.thoughts)
	}
	out := make([]Thought, limit)
	copy(out, c.thoughts[:limit])
	return out
}

// Get returns the thought with the given id
func (c *Catalog) Get(id int) (Thought, error) {
	i, ok := c.byID[id]
	if !ok {
		return Thought{}, ErrNotFound
	}
	return c.thoughts[i], nil
}

// Len returns the number of thoughts
func (c *Catalog) Len() int {
	return len(c.thoughts)
}
