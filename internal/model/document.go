package model

import "time"

// Document is the metadata of a stored file.
type Document struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	OwnerName       string     `json:"owner_name,omitempty"`
	Filename        string     `json:"filename"`
	FileType        string     `json:"file_type"`
	FileSizeBytes   int64      `json:"file_size_bytes"`
	UploadDate      time.Time  `json:"upload_date"`
	AccessStart     *time.Time `json:"access_start,omitempty"`
	AccessEnd       *time.Time `json:"access_end,omitempty"`
	IsPublic        bool       `json:"is_public"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Summary         string     `json:"summary"`
	Keywords        []string   `json:"keywords"`
	ContentLocation string     `json:"content_location"`
}

// FileMeta describes the uploaded bytes.
type FileMeta struct {
	Filename        string
	SizeBytes       int64
	ContentLocation string
}

// UploadOptions are caller overrides applied on upload. Nil fields keep the defaults.
type UploadOptions struct {
	AccessStart *time.Time
	AccessEnd   *time.Time
	IsPublic    *bool
	Title       *string
	Description *string
}

// DocumentPatch holds a partial document update. Identity, ownership,
// size, upload date and content location cannot be patched.
type DocumentPatch struct {
	Filename    Optional[string]     `json:"filename" swaggertype:"string"`
	FileType    Optional[string]     `json:"file_type" swaggertype:"string"`
	Title       Optional[string]     `json:"title" swaggertype:"string"`
	Description Optional[string]     `json:"description" swaggertype:"string"`
	Summary     Optional[string]     `json:"summary" swaggertype:"string"`
	Keywords    Optional[[]string]   `json:"keywords" swaggertype:"array,string"`
	IsPublic    Optional[bool]       `json:"is_public" swaggertype:"boolean"`
	AccessStart Optional[*time.Time] `json:"access_start" swaggertype:"string" format:"date-time"`
	AccessEnd   Optional[*time.Time] `json:"access_end" swaggertype:"string" format:"date-time"`
}

// Apply merges the set fields of p onto d.
func (p DocumentPatch) Apply(d *Document) {
	p.Filename.ApplyTo(&d.Filename)
	p.FileType.ApplyTo(&d.FileType)
	p.Title.ApplyTo(&d.Title)
	p.Description.ApplyTo(&d.Description)
	p.Summary.ApplyTo(&d.Summary)
	p.Keywords.ApplyTo(&d.Keywords)
	p.IsPublic.ApplyTo(&d.IsPublic)
	p.AccessStart.ApplyTo(&d.AccessStart)
	p.AccessEnd.ApplyTo(&d.AccessEnd)
}
