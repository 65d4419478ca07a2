package catalog

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Track is one extracted archive entry and the file it was written to.
type Track struct {
	ID         uint64 `gorm:"primaryKey"`
	Archive    string `gorm:"uniqueIndex:idx_archive_track; not null"`
	TrackIndex int    `gorm:"uniqueIndex:idx_archive_track; not null"`

	CompressedLength int32
	ExtractedSize    int32
	DataOffset       int32

	// Output is the path of the bitmap written for the track.
	Output string
	// Checksum is the CRC-32 (IEEE) of the decompressed data.
	Checksum    uint32
	ExtractedAt time.Time
}

// RecordTrack inserts track, replacing any earlier record of the same archive
// and track index.
func RecordTrack(db *gorm.DB, track *Track) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "archive"}, {Name: "track_index"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"compressed_length", "extracted_size", "data_offset", "output", "checksum", "extracted_at",
		}),
	}).Create(track).Error
}

// FindTracksByArchive returns every recorded track of archive in directory order.
func FindTracksByArchive(db *gorm.DB, archive string) ([]Track, error) {
	var tracks []Track
	err := db.Where("archive = ?", archive).Order("track_index").Find(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// CountTracks returns the number of recorded tracks across all archives.
func CountTracks(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Track{}).Count(&count).Error
	return count, err
}
