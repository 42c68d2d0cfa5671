package quillkit

// BlogPost is the core content type stored in SQLite and rendered by templates.
// PubDatetime is a wall-clock datetime string (YYYY-MM-DDTHH:mm:ss) in the
// site's configured timezone; the schedule package turns it into an instant.
type BlogPost struct {
	Title       string
	PubDatetime string
	Tags        []string
	Summary     string
	Link        string
	Slug        string
	Content     string
	Draft       bool
}

// Image is the stored metadata for an uploaded image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	ImageURL    string // og:image, usually the generated preview card
}
