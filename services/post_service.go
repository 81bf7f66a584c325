package services

import (
	"context"
	"courier-server/models"
	"courier-server/utils/errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostsBatchSize is the fixed feed page size.
const PostsBatchSize = 100

type PostService struct {
	store *Store
	users *UserService
}

func NewPostService(store *Store, users *UserService) *PostService {
	return &PostService{store: store, users: users}
}

// Page is one feed page. NextCursor points at the last item of the page;
// HasMore turns false once a page comes back short.
type Page struct {
	Items      []models.Post `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// The cursor carries the boundary item's timestamp plus its id as a
// tiebreaker, so posts sharing the boundary millisecond are not skipped
// across a page break.
func encodeCursor(p models.Post) string {
	return p.Timestamp.Format(time.RFC3339Nano) + "|" + p.ID
}

func decodeCursor(cursor string) (time.Time, string, error) {
	tsPart, id, _ := strings.Cut(cursor, "|")
	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return time.Time{}, "", err
	}
	return ts, id, nil
}

// PageBookkeeping computes NextCursor and HasMore for a fetched batch.
func PageBookkeeping(items []models.Post, pageSize int) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	return encodeCursor(items[len(items)-1]), len(items) >= pageSize
}

// LoadPage fetches one page of listings of the given kind, newest first.
// cursor, when set, is the next_cursor of the previous page.
func (s *PostService) LoadPage(ctx context.Context, postType models.PostType, cursor string) (Page, error) {
	if postType != models.PostOrder && postType != models.PostTraveler {
		return Page{}, errors.Validation("post type must be \"order\" or \"traveler\".")
	}

	filter := bson.M{"post_type": postType}
	if cursor != "" {
		before, lastID, err := decodeCursor(cursor)
		if err != nil {
			return Page{}, errors.Validation("cursor is not valid.")
		}
		if lastID == "" {
			filter["timestamp"] = bson.M{"$lt": before}
		} else {
			filter["$or"] = []bson.M{
				{"timestamp": bson.M{"$lt": before}},
				{"timestamp": before, "_id": bson.M{"$lt": lastID}},
			}
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(PostsBatchSize)
	cur, err := s.store.Posts.Find(ctx, filter, opts)
	if err != nil {
		return Page{}, errors.Wrap(err, "DB_ERROR", "An error occurred while fetching posts.", http.StatusInternalServerError)
	}
	var items []models.Post
	if err := cur.All(ctx, &items); err != nil {
		return Page{}, errors.Wrap(err, "DB_ERROR", "An error occurred while fetching posts.", http.StatusInternalServerError)
	}
	if items == nil {
		items = []models.Post{}
	}

	next, hasMore := PageBookkeeping(items, PostsBatchSize)
	return Page{Items: items, NextCursor: next, HasMore: hasMore}, nil
}

// FilterPosts applies the case-insensitive substring search over description,
// category, origin and destination. It only ever sees pages already fetched;
// listings on unfetched pages are not searched.
func FilterPosts(posts []models.Post, query string) []models.Post {
	q := strings.ToLower(query)
	out := []models.Post{}
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.LocationFrom), q) ||
			strings.Contains(strings.ToLower(p.LocationTo), q) {
			out = append(out, p)
		}
	}
	return out
}

// searchPages pages through load up to maxPages times and filters the union
// in memory. The second return is the number of pages actually fetched, which
// can be fewer than maxPages when the feed runs out.
func searchPages(load func(cursor string) (Page, error), query string, maxPages int) ([]models.Post, int, error) {
	if maxPages <= 0 {
		maxPages = 1
	}
	var fetched []models.Post
	cursor := ""
	pages := 0
	for i := 0; i < maxPages; i++ {
		page, err := load(cursor)
		if err != nil {
			return nil, pages, err
		}
		pages++
		fetched = append(fetched, page.Items...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return FilterPosts(fetched, query), pages, nil
}

// Search filters up to maxPages pages of the given kind. Results are bounded
// by what was paged in.
func (s *PostService) Search(ctx context.Context, postType models.PostType, query string, maxPages int) ([]models.Post, int, error) {
	return searchPages(func(cursor string) (Page, error) {
		return s.LoadPage(ctx, postType, cursor)
	}, query, maxPages)
}

// ValidateNewPost runs the required-field checks before any store call.
func ValidateNewPost(postType models.PostType, description, category, price, contactInfo string) error {
	if postType != models.PostOrder && postType != models.PostTraveler {
		return errors.Validation("post type must be \"order\" or \"traveler\".")
	}
	if description == "" || category == "" || price == "" || contactInfo == "" {
		return errors.Validation("Please fill all required fields.")
	}
	return nil
}

// Create inserts a new listing with the creator's display-name snapshot.
func (s *PostService) Create(ctx context.Context, creatorID string, post models.Post) (models.Post, error) {
	if err := ValidateNewPost(post.PostType, post.Description, post.Category, post.Price, post.ContactInfo); err != nil {
		return models.Post{}, err
	}
	creator, err := s.users.GetUser(ctx, creatorID)
	if err != nil {
		return models.Post{}, err
	}

	post.ID = uuid.New().String()
	post.CreatorID = creatorID
	post.Username = creator.FullName
	post.Timestamp = time.Now().UTC()

	if _, err := s.store.Posts.InsertOne(ctx, post); err != nil {
		return models.Post{}, errors.Wrap(err, "DB_ERROR", "Error creating post", http.StatusInternalServerError)
	}
	return post, nil
}

// Delete removes a listing. Owner-only and irreversible; there is no edit path.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	var post models.Post
	if err := s.store.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		return errors.ErrNotFound
	}
	if post.CreatorID != userID {
		return errors.ErrForbidden
	}
	if _, err := s.store.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Error deleting post", http.StatusInternalServerError)
	}
	return nil
}

// ByCreator lists a user's own posts for the profile screen, newest first.
func (s *PostService) ByCreator(ctx context.Context, creatorID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := s.store.Posts.Find(ctx, bson.M{"creator_id": creatorID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "An error occurred while fetching posts.", http.StatusInternalServerError)
	}
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "An error occurred while fetching posts.", http.StatusInternalServerError)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
