// Package dataservice is the JSON-document store behind the logger tools.
// Documents are whole JSON blobs keyed by (collection, id) and persisted in
// sqlite through gorm.
package dataservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Collections the service accepts.
var knownCollections = map[string]bool{
	"conversation_history": true,
	"user_inputs":          true,
	"curated_suggestions":  true,
}

// Keys that may be updated inside a user_inputs document.
var userInputKeys = map[string]bool{
	"location":         true,
	"land_size":        true,
	"soil_type":        true,
	"water_source":     true,
	"budget":           true,
	"experience_level": true,
	"crop_preferences": true,
	"current_crops":    true,
	"farming_season":   true,
	"challenges":       true,
	"goals":            true,
}

// Document is one stored JSON blob.
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocID      string `gorm:"primaryKey;size:128"`
	Body       string
	UpdatedAt  time.Time
}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("document not found")
	ErrInvalidKey        = errors.New("invalid key for collection")
)

type Store struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the parsed document body.
func (s *Store) Get(collection, id string) (map[string]any, error) {
	if !knownCollections[collection] {
		return nil, ErrUnknownCollection
	}
	var doc Document
	err := s.db.Where("collection = ? AND doc_id = ?", collection, id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(doc.Body), &body); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	return body, nil
}

// Put replaces (or creates) the whole document.
func (s *Store) Put(collection, id string, body map[string]any) error {
	if !knownCollections[collection] {
		return ErrUnknownCollection
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	doc := Document{Collection: collection, DocID: id, Body: string(raw), UpdatedAt: time.Now().UTC()}
	if err := s.db.Save(&doc).Error; err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// UpdateKey sets one key inside an existing user_inputs document. Other
// collections only support whole-document writes.
func (s *Store) UpdateKey(collection, id, key string, value any) error {
	if collection != "user_inputs" {
		return ErrInvalidKey
	}
	if !userInputKeys[key] {
		return ErrInvalidKey
	}
	body, err := s.Get(collection, id)
	if err != nil {
		return err
	}
	body[key] = value
	return s.Put(collection, id, body)
}
