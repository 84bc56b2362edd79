package document

import (
	"path"
	"strings"
	"time"
)

// DocxContentType is the MIME type served for stored documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extension is the only file type the service lists and accepts.
const Extension = ".docx"

// Document describes a stored .docx file. ID and Name are both the file name,
// which is what the editor and the add-in launcher key on.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// FileInfo is what a repository knows about a stored file.
type FileInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// UploadMetadata is the JSON "metadata" part sent alongside an upload.
type UploadMetadata struct {
	DocumentName string `json:"documentName"`
	Timestamp    string `json:"timestamp"`
	EventType    string `json:"eventType"`
}

// IsDocx reports whether name carries the .docx extension (any case).
func IsDocx(name string) bool {
	return strings.EqualFold(path.Ext(name), Extension)
}
