package models

import (
	"time"

	"gorm.io/datatypes"
)

// RetrievedRecord is the audit-log entry for one row returned by any site
// search, stored regardless of whether the row matched the person. Duplicate
// retrievals of the same row overwrite the previous entry.
type RetrievedRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID        string `json:"person_id" gorm:"index:idx_retrieved_unique,unique;not null"`
	PersonGivenName string `json:"person_given_name" gorm:"not null"`
	PersonSurname   string `json:"person_surname" gorm:"not null"`

	RecordType string `json:"record_type" gorm:"index:idx_retrieved_unique,unique;not null"`
	Source     string `json:"source" gorm:"index:idx_retrieved_unique,unique;not null"`

	Voivodeship string `json:"voivodeship,omitempty" gorm:"index"`
	Year        string `json:"year,omitempty" gorm:"index:idx_retrieved_unique,unique;default:''"`
	Act         string `json:"act,omitempty"`

	ResultGivenName string `json:"result_given_name,omitempty" gorm:"index:idx_retrieved_unique,unique;default:''"`
	ResultSurname   string `json:"result_surname,omitempty" gorm:"index:idx_retrieved_unique,unique;default:''"`

	FatherGivenName string `json:"father_given_name,omitempty"`
	MotherGivenName string `json:"mother_given_name,omitempty"`
	MotherSurname   string `json:"mother_surname,omitempty"`
	SpouseGivenName string `json:"spouse_given_name,omitempty"`
	SpouseSurname   string `json:"spouse_surname,omitempty"`

	Parish   string `json:"parish,omitempty" gorm:"index:idx_retrieved_unique,unique;default:''"`
	Locality string `json:"locality,omitempty"`
	Link     string `json:"link,omitempty"`

	RawData datatypes.JSON `json:"raw_data,omitempty"`

	FoundAt time.Time `json:"found_at"`
}

func (RetrievedRecord) TableName() string { return "retrieved_records" }

// MatchedRecord is a retrieved row confirmed to belong to the queried person
// by the exact-name policy. At most one row exists per
// (person, source, record type, year, parish, result names) tuple; repeated
// finds refresh FoundAt instead of duplicating.
type MatchedRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID        string `json:"person_id" gorm:"index:idx_matched_unique,unique;not null"`
	PersonGivenName string `json:"person_given_name" gorm:"not null"`
	PersonSurname   string `json:"person_surname" gorm:"not null"`

	RecordType string `json:"record_type" gorm:"index:idx_matched_unique,unique;not null"`
	Source     string `json:"source" gorm:"index:idx_matched_unique,unique;not null"`

	Voivodeship string `json:"voivodeship,omitempty" gorm:"index"`
	Year        string `json:"year,omitempty" gorm:"index:idx_matched_unique,unique;default:''"`
	Act         string `json:"act,omitempty"`

	ResultGivenName string `json:"result_given_name,omitempty" gorm:"index:idx_matched_unique,unique;default:''"`
	ResultSurname   string `json:"result_surname,omitempty" gorm:"index:idx_matched_unique,unique;default:''"`

	FatherGivenName string `json:"father_given_name,omitempty"`
	MotherGivenName string `json:"mother_given_name,omitempty"`
	MotherSurname   string `json:"mother_surname,omitempty"`
	SpouseGivenName string `json:"spouse_given_name,omitempty"`
	SpouseSurname   string `json:"spouse_surname,omitempty"`

	Parish   string `json:"parish,omitempty" gorm:"index:idx_matched_unique,unique;default:''"`
	Locality string `json:"locality,omitempty"`
	Link     string `json:"link,omitempty"`

	RawData datatypes.JSON `json:"raw_data,omitempty"`

	FoundAt time.Time `json:"found_at"`
}

func (MatchedRecord) TableName() string { return "matched_records" }

// RegionCacheEntry is one persistent geocoder-cache row. A present row with
// an empty Region means "looked up before, no voivodeship found" and must be
// told apart from the row not existing at all.
type RegionCacheEntry struct {
	Query     string    `json:"query" gorm:"primaryKey"`
	Region    string    `json:"region"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RegionCacheEntry) TableName() string { return "region_cache" }
