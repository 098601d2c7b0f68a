package model

import "time"

// PublicationStage is the last pipeline stage a publish attempt reached.
type PublicationStage string

const (
	PublicationStageCreate         PublicationStage = "create"
	PublicationStageRequestTargets PublicationStage = "request_targets"
	PublicationStageUpload         PublicationStage = "upload"
	PublicationStageCommit         PublicationStage = "commit"
	PublicationStageDone           PublicationStage = "done"
)

// PublicationTitleMax is the width of the journal title column in characters.
const PublicationTitleMax = 120

// Publication is a journal row for one publish attempt. ListingID is empty
// when the listing was never created.
type Publication struct {
	ID        string           `gorm:"primaryKey;size:36"`
	ListingID string           `gorm:"column:listing_id;size:64;index"`
	Title     string           `gorm:"size:120;not null"`
	FileCount int              `gorm:"column:file_count;not null"`
	Stage     PublicationStage `gorm:"column:stage;size:32;not null;index"`
	Failed    bool             `gorm:"column:failed;not null;index"`
	Error     string           `gorm:"column:error;type:text"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Publication) TableName() string {
	return "publications"
}

// Incomplete reports whether the listing exists on the gateway without its
// full image set.
func (p Publication) Incomplete() bool {
	return p.Failed && p.ListingID != ""
}
