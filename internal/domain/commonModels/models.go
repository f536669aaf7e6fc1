package commonModels

import "time"

// Page is a single scanned page as handed over by the acquisition layer.
type Page struct {
	Id            string    `json:"page_id"`
	ImagePath     string    `json:"image_path"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	Number        int       `json:"page_number"`
	Resolution    int       `json:"resolution"`
	Rotation      int       `json:"rotation"`
	ColorMode     string    `json:"color_mode,omitempty"`
	ScannedAt     time.Time `json:"scan_timestamp"`
}

// DisplaySize swaps the axes for quarter-turn rotations.
func (p Page) DisplaySize(width, height int) (int, int) {
	if p.Rotation == 90 || p.Rotation == 270 {
		return height, width
	}
	return width, height
}

type ImageType string

var PNG ImageType = "PNG"
var JPEG ImageType = "JPEG"
var TIFF ImageType = "TIFF"
var BMP ImageType = "BMP"
var ERR ImageType = "ERROR"
