package models

// Post is a community feed entry stored under /posts in the realtime tree.
// Posts are never deleted; likes, comments and shares are mutated in place.
type Post struct {
	ID        string             `json:"id"`
	Author    string             `json:"author"`
	AuthorID  string             `json:"authorId"`
	Content   string             `json:"content"`
	Timestamp int64              `json:"timestamp"`
	Likes     []string           `json:"likes"`
	Comments  map[string]Comment `json:"comments"`
	Shares    int                `json:"shares"`
	MediaURL  string             `json:"mediaUrl,omitempty"`
	MediaType string             `json:"mediaType,omitempty"` // "image" or "video"
}

// Comment is owned by exactly one post and is immutable once created.
type Comment struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	AuthorID  string   `json:"authorId"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
	Likes     []string `json:"likes"`
}

// UserProfile is the private per-user record at /users/{uid}.
type UserProfile struct {
	Bio         string   `json:"bio"`
	Description string   `json:"description"`
	Connections []string `json:"connections"`
	DisplayName string   `json:"displayName"`
	LastActive  int64    `json:"lastActive"`
	IsLoggedIn  bool     `json:"isLoggedIn"`
	PhotoURL    string   `json:"photoURL,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// PublicProfile is the reduced projection of UserProfile kept at
// /publicUsers/{uid} so other users can be listed without exposing the
// full private record. It must stay a subset of UserProfile.
type PublicProfile struct {
	UID         string `json:"uid,omitempty"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Bio         string `json:"bio"`
	LastActive  int64  `json:"lastActive"`
	IsLoggedIn  bool   `json:"isLoggedIn"`
}

// Notification kinds.
const (
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyShare   = "share"
)

// Notification is owned by its recipient (the post author) and lives at
// /notifications/{recipientUID}/{id}.
type Notification struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	PostID       string `json:"postId"`
	FromUserID   string `json:"fromUserId"`
	FromUserName string `json:"fromUserName"`
	Timestamp    int64  `json:"timestamp"`
	Read         bool   `json:"read"`
	Comment      string `json:"comment,omitempty"` // first 50 chars of the comment
}

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is one entry of the per-user daily task list. The whole list is
// persisted as a single array field on the user record.
type Task struct {
	ID           string `bson:"id" json:"id"`
	Title        string `bson:"title" json:"title"`
	Duration     string `bson:"duration" json:"duration"`
	Type         string `bson:"type" json:"type"`
	Description  string `bson:"description" json:"description"`
	Priority     string `bson:"priority" json:"priority"`
	ReminderTime string `bson:"reminderTime" json:"reminderTime"` // "15:04" time of day
	Scheduled    bool   `bson:"scheduled" json:"scheduled"`
}

// LeaderboardEntry is an append-only game score record.
type LeaderboardEntry struct {
	UserID    string `bson:"userId" json:"userId"`
	Name      string `bson:"name" json:"name"`
	GameID    string `bson:"gameId" json:"gameId"`
	Score     int    `bson:"score" json:"score"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// AssessmentResult is the persisted outcome of the self-assessment quiz.
type AssessmentResult struct {
	Prediction    string             `bson:"prediction" json:"prediction"`
	Probabilities map[string]float64 `bson:"probabilities" json:"probabilities"`
	Timestamp     int64              `bson:"timestamp" json:"timestamp"`
}

// ContactMessage is a message submitted through the landing page form.
type ContactMessage struct {
	Email     string `bson:"email" json:"email"`
	Message   string `bson:"message" json:"message"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
