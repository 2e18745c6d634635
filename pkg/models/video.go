package models

// VideoListResponse wraps the paginated media listing.
type VideoListResponse struct {
	Media []Video `json:"media"`
}

// Video is one entry from the media-changed listing. Type is the event
// kind that produced the clip, e.g. "motion".
type Video struct {
	CameraID  int    `json:"camera_id"`
	Type      string `json:"type"`
	VideoURL  string `json:"video_url"`
	CreatedAt string `json:"created_at"`
}
