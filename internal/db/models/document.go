package models

import (
	"time"

	"gorm.io/datatypes"
)

// LocationType selects the storage backend of a DocumentLocation.
type LocationType string

const (
	// LocationLocal stores documents on the local filesystem below LocationConfig.Root.
	LocationLocal LocationType = "local"
	// LocationWasabi stores documents in a Wasabi bucket.
	LocationWasabi LocationType = "wasabi"
	// LocationS3 stores documents in an AWS S3 bucket.
	LocationS3 LocationType = "s3"
)

// LocationConfig is the backend specific part of a DocumentLocation, stored as JSON.
type LocationConfig struct {
	Root      string `json:"root,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"` // overrides the endpoint derived from Region
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Insecure  bool   `json:"insecure,omitempty"`
}

// DocumentLocation describes where uploaded documents of a tenant are stored.
// A location with nil OrgID and CompanyID is the global default.
type DocumentLocation struct {
	ID           uint64                             `gorm:"primaryKey" json:"id"`
	OrgID        *uint                              `gorm:"index" json:"org_id"`
	CompanyID    *uint                              `gorm:"index" json:"company_id"`
	Name         string                             `gorm:"size:150;not null" json:"name"`
	LocationType LocationType                       `gorm:"type:varchar(20);not null" json:"location_type"`
	IsDefault    bool                               `gorm:"default:false" json:"is_default"`
	Config       datatypes.JSONType[LocationConfig] `json:"-"`
	CreatedAt    time.Time                          `json:"created_at"`
	UpdatedAt    time.Time                          `json:"updated_at"`
}

// TableName specifies the database table name for the DocumentLocation model.
func (DocumentLocation) TableName() string {
	return "document_locations"
}

// Document is an uploaded file. ObjectKey addresses it inside its location.
type Document struct {
	ID          uint64           `gorm:"primaryKey" json:"id"`
	OrgID       *uint            `gorm:"index" json:"org_id"`
	CompanyID   *uint            `gorm:"index" json:"company_id"`
	StaffID     *uint64          `gorm:"index" json:"staff_id"`
	LocationID  uint64           `gorm:"not null" json:"location_id"`
	Location    DocumentLocation `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"-"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	ObjectKey   string           `gorm:"size:255;not null;unique" json:"-"`
	ContentType string           `gorm:"size:150" json:"content_type"`
	Size        int64            `json:"size"`
	UploadedBy  uint64           `json:"uploaded_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TableName specifies the database table name for the Document model.
func (Document) TableName() string {
	return "documents"
}
