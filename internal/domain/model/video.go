package model

import "time"

// Video is the metadata for an uploaded promotional clip. The bytes
// live in object storage; only the durable URL and object key are kept
// here.
type Video struct {
	ID           string    `json:"id"`
	ObjectKey    string    `json:"object_key"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
	URL          string    `json:"url"`
}
