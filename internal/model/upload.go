package model

// UploadTarget is a signed, time-limited destination for one file.
type UploadTarget struct {
	BlobName  string `json:"blobName"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

type UploadFileMeta struct {
	Ext string `json:"ext"`
}

type UploadTargetsRequest struct {
	Files []UploadFileMeta `json:"files"`
}

// ImageCommit is an uploaded target plus its display position.
type ImageCommit struct {
	UploadTarget
	SortOrder int `json:"sort_order"`
}

type CommitImagesRequest struct {
	Images []ImageCommit `json:"images"`
}
