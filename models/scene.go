package models

// Scene is a renderable composition: a template image with the caption layered on top
type Scene struct {
	SessionID    string
	Template     Template
	Caption      string
	Offset       Offset
	Width        int
	Height       int
	ImageAllowed bool  // false when the template host is outside the image allow-list
	Version      int64 // session UpdatedAt in nanoseconds; identifies the state the scene was built from
}

// BitmapFile is a rasterized composition ready to be downloaded
type BitmapFile struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}
