package models

import (
	"strings"
	"time"
)

// Post publication states.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Post content kinds.
const (
	TypeArticle = "article"
	TypeStory   = "story"
)

// AdminUser is a dashboard account.
type AdminUser struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:80;uniqueIndex"`
	PasswordHash string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// Category groups posts. Name and slug are unique.
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:50;uniqueIndex"`
	Slug        string `gorm:"size:50;uniqueIndex"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Category) TableName() string {
	return "categories"
}

// Tag is a free-form label attached to posts through post_tags.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:50;uniqueIndex"`
	Slug string `gorm:"size:50;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

// Post is a published article or story.
type Post struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Title           string `gorm:"size:200"`
	Content         string `gorm:"type:text"`
	Excerpt         string `gorm:"size:500"`
	ImageFilename   string `gorm:"size:255"`
	ImagePositionX  string `gorm:"size:20;default:center"`
	ImagePositionY  string `gorm:"size:20;default:center"`
	PostType        string `gorm:"size:20;default:article;index"`
	CategoryID      *int64 `gorm:"index"`
	Category        *Category
	Slug            string `gorm:"size:200;uniqueIndex"`
	Featured        bool   `gorm:"default:false"`
	Status          string `gorm:"size:20;default:published;index"`
	PublishDate     time.Time
	TemplateID      *int64
	Template        *PostTemplate `gorm:"foreignKey:TemplateID"`
	MetaDescription string        `gorm:"size:160"`
	MetaKeywords    string        `gorm:"size:255"`
	CanonicalURL    string        `gorm:"size:255"`
	Tags            []Tag         `gorm:"many2many:post_tags"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Post) TableName() string {
	return "posts"
}

// Published reports whether the post is visible to readers right now.
func (p *Post) Published() bool {
	return p.Status == StatusPublished && !p.PublishDate.After(time.Now())
}

// TagNames returns the post's tag names joined for form display.
func (p *Post) TagNames() string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

// PostTag is the posts<->tags join row. Declared explicitly so the
// schema migrations can create and drop it like any other table.
type PostTag struct {
	PostID int64 `gorm:"primaryKey"`
	TagID  int64 `gorm:"primaryKey"`
}

func (PostTag) TableName() string {
	return "post_tags"
}

// PostTemplate is a reusable content scaffold offered in the editor.
type PostTemplate struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"size:100"`
	Description     string `gorm:"size:255"`
	ContentTemplate string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (PostTemplate) TableName() string {
	return "post_templates"
}

// GalleryImage is an uploaded image with its stored metadata.
type GalleryImage struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Filename         string `gorm:"size:255;uniqueIndex"`
	OriginalFilename string `gorm:"size:255"`
	AltText          string `gorm:"size:255"`
	Caption          string `gorm:"size:500"`
	FileSize         int64
	Width            int
	Height           int
	UploadedAt       time.Time
}

func (GalleryImage) TableName() string {
	return "image_gallery"
}

// Quote is shown on the public site; active quotes rotate by display order.
type Quote struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Text         string `gorm:"type:text"`
	Author       string `gorm:"size:100"`
	Source       string `gorm:"size:200"`
	Language     string `gorm:"size:10;default:en"`
	IsActive     bool   `gorm:"default:true"`
	DisplayOrder int    `gorm:"default:0"`
	CreatedAt    time.Time
}

func (Quote) TableName() string {
	return "quotes"
}

// EmailConfig holds the single SMTP delivery configuration row.
type EmailConfig struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	SMTPServer   string `gorm:"size:255"`
	SMTPPort     int    `gorm:"default:587"`
	SMTPUsername string `gorm:"size:255"`
	SMTPPassword string `gorm:"size:255"`
	FromEmail    string `gorm:"size:255"`
	ToEmail      string `gorm:"size:255"`
	UseTLS       bool   `gorm:"default:true"`
	UpdatedAt    time.Time
}

func (EmailConfig) TableName() string {
	return "email_config"
}

// ContactMessage is a visitor submission from the contact form.
type ContactMessage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:100"`
	Email     string `gorm:"size:255"`
	Subject   string `gorm:"size:200"`
	Message   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// SocialLink is a footer link with ordering and visibility.
type SocialLink struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:50"`
	URL          string `gorm:"size:255"`
	IconClass    string `gorm:"size:50"`
	DisplayOrder int    `gorm:"default:0"`
	IsActive     bool   `gorm:"default:false"`
}

func (SocialLink) TableName() string {
	return "social_links"
}

// AboutInfo is the single about-page row.
type AboutInfo struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"size:100"`
	Email         string `gorm:"size:255"`
	Bio           string `gorm:"type:text"`
	ImageFilename string `gorm:"size:255"`
	WebsiteURL    string `gorm:"size:255"`
	GithubURL     string `gorm:"size:255"`
	LinkedinURL   string `gorm:"size:255"`
	TwitterURL    string `gorm:"size:255"`
	UpdatedAt     time.Time
}

func (AboutInfo) TableName() string {
	return "about_info"
}

// ActivityLog records dashboard actions for the audit trail.
type ActivityLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	AdminUsername string    `gorm:"size:80;index"`
	Action        string    `gorm:"size:100"`
	Details       string    `gorm:"type:text"`
	IPAddress     string    `gorm:"size:45"`
	Timestamp     time.Time `gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
