package entity

import (
	"time"

	"github.com/google/uuid"
)

type AudioChunk struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	ChunkNumber    int
	Format         string
	SampleRateHertz int
	SizeBytes      int
	StorageURI     string
	Processed      bool
	Transcript     string
	Confidence     float64
	CreatedAt      time.Time
}
