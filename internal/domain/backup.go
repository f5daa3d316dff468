package domain

import "time"

const BackupVersion = "1"

// BackupDocument is the serialized form of a backup.
type BackupDocument struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Sites     []Site    `json:"sites"`
}

type BackupMetadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	SiteCount int       `json:"site_count"`
	SizeBytes int       `json:"size_bytes"`
}

// BackupPayload is what a download returns and what a restore consumes.
type BackupPayload struct {
	FileName string         `json:"file_name"`
	Data     []byte         `json:"data"`
	Metadata BackupMetadata `json:"metadata"`
}
