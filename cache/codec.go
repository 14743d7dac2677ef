package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// snapshotVersion is the version of the encoded snapshot layout
const snapshotVersion = 1

type encodedSnapshot struct {
	Version   int              `json:"version"`
	Timestamp *time.Time       `json:"timestamp"`
	Records   *[]encodedRecord `json:"records"`
}

type encodedRecord struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      encodedRating `json:"rating"`
}

type encodedRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// EncodeSnapshot serializes a whole snapshot into a self-describing JSON document
// Failures are reported as ErrEncode
func EncodeSnapshot(records []CacheRecord, timestamp time.Time) ([]byte, error) {
	encoded := make([]encodedRecord, len(records))
	for i, r := range records {
		encoded[i] = encodedRecord{
			ID:          r.ID,
			Title:       r.Title,
			Price:       r.Price,
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			Rating:      encodedRating{Rate: r.Rating.Rate, Count: r.Rating.Count},
		}
	}

	data, err := json.Marshal(encodedSnapshot{
		Version:   snapshotVersion,
		Timestamp: &timestamp,
		Records:   &encoded,
	})
	if err != nil {
		return nil, EncodeError(err)
	}
	return data, nil
}

// DecodeSnapshot parses a document produced by EncodeSnapshot
// Failures, including missing fields and unknown versions, are reported as ErrDecode
func DecodeSnapshot(data []byte) (*CachedSnapshot, error) {
	var encoded encodedSnapshot
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, DecodeError(err)
	}
	if encoded.Version != snapshotVersion {
		return nil, DecodeError(fmt.Errorf("unsupported version %d", encoded.Version))
	}
	if encoded.Timestamp == nil {
		return nil, DecodeError(fmt.Errorf("missing timestamp"))
	}
	if encoded.Records == nil {
		return nil, DecodeError(fmt.Errorf("missing records"))
	}

	records := make([]CacheRecord, len(*encoded.Records))
	for i, r := range *encoded.Records {
		records[i] = CacheRecord{
			ID:          r.ID,
			Title:       r.Title,
			Price:       r.Price,
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			Rating:      RatingRecord{Rate: r.Rating.Rate, Count: r.Rating.Count},
		}
	}
	return &CachedSnapshot{Records: records, Timestamp: *encoded.Timestamp}, nil
}
