package models

import "time"

// Photo is a client image stored in Google Drive. Its ID is what slots carry as PhotoRef.
type Photo struct {
	ID            string
	Name          string
	MimeType      string
	Size          int64
	ThumbnailLink string
	ModifiedTime  time.Time
}

// Folder is a Google Drive folder.
type Folder struct {
	ID   string
	Name string
}
