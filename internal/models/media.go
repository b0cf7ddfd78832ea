package models

// Media is an uploaded object belonging to a website.
type Media struct {
	Record      `bson:",inline"`
	Key         string `json:"key" bson:"key"`
	URL         string `json:"url" bson:"url"`
	ContentType string `json:"contentType" bson:"contentType"`
	Size        int64  `json:"size" bson:"size"`
}
