package domain

// StoredFile describes one entry of the shared upload directory.
// Files carry no metadata beyond name and size; the last writer
// for a given name wins.
type StoredFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
