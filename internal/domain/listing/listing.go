package listing

import (
	"fmt"
	"time"
)

type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusGenerated ListingStatus = "generated"
)

// Tone selects the voice of the generated description.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneLuxury       Tone = "luxury"
	ToneFriendly     Tone = "friendly"
	ToneConcise      Tone = "concise"
	ToneDetailed     Tone = "detailed"
)

var ValidTones = map[Tone]bool{
	ToneProfessional: true,
	ToneLuxury:       true,
	ToneFriendly:     true,
	ToneConcise:      true,
	ToneDetailed:     true,
}

// Listing is one property a user wants a description written for. The
// structured fields feed the generation prompt; the description is filled
// in by the generation workflow.
type Listing struct {
	id                   uint
	userID               uint
	title                string
	propertyType         string
	bedrooms             uint
	bathrooms            uint
	squareFeet           uint
	location             string
	features             []string
	tone                 Tone
	generatedDescription string
	status               ListingStatus
	createdAt            time.Time
	updatedAt            time.Time
}

func NewListing(userID uint, title, propertyType string, bedrooms, bathrooms, squareFeet uint,
	location string, features []string) (*Listing, error) {

	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("listing title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("listing title too long (max 200 characters)")
	}
	if propertyType == "" {
		return nil, fmt.Errorf("property type is required")
	}
	if features == nil {
		features = []string{}
	}

	now := time.Now()
	return &Listing{
		userID:       userID,
		title:        title,
		propertyType: propertyType,
		bedrooms:     bedrooms,
		bathrooms:    bathrooms,
		squareFeet:   squareFeet,
		location:     location,
		features:     features,
		status:       StatusDraft,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructListing(id, userID uint, title, propertyType string,
	bedrooms, bathrooms, squareFeet uint, location string, features []string,
	tone, generatedDescription, status string, createdAt, updatedAt time.Time) (*Listing, error) {

	if id == 0 {
		return nil, fmt.Errorf("listing ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	listingStatus := ListingStatus(status)
	if listingStatus != StatusDraft && listingStatus != StatusGenerated {
		return nil, fmt.Errorf("invalid listing status: %s", status)
	}
	if features == nil {
		features = []string{}
	}

	return &Listing{
		id:                   id,
		userID:               userID,
		title:                title,
		propertyType:         propertyType,
		bedrooms:             bedrooms,
		bathrooms:            bathrooms,
		squareFeet:           squareFeet,
		location:             location,
		features:             features,
		tone:                 Tone(tone),
		generatedDescription: generatedDescription,
		status:               listingStatus,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

func (l *Listing) ID() uint                     { return l.id }
func (l *Listing) UserID() uint                 { return l.userID }
func (l *Listing) Title() string                { return l.title }
func (l *Listing) PropertyType() string         { return l.propertyType }
func (l *Listing) Bedrooms() uint               { return l.bedrooms }
func (l *Listing) Bathrooms() uint              { return l.bathrooms }
func (l *Listing) SquareFeet() uint             { return l.squareFeet }
func (l *Listing) Location() string             { return l.location }
func (l *Listing) Features() []string           { return l.features }
func (l *Listing) Tone() Tone                   { return l.tone }
func (l *Listing) GeneratedDescription() string { return l.generatedDescription }
func (l *Listing) Status() ListingStatus        { return l.status }
func (l *Listing) CreatedAt() time.Time         { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time         { return l.updatedAt }

func (l *Listing) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("listing ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("listing ID cannot be zero")
	}
	l.id = id
	return nil
}

// IsOwnedBy reports whether the listing belongs to the user.
func (l *Listing) IsOwnedBy(userID uint) bool {
	return l.userID == userID
}

// SetGeneratedDescription stores the generated text and the tone it was
// written in. Regeneration overwrites the previous description.
func (l *Listing) SetGeneratedDescription(description string, tone Tone) error {
	if description == "" {
		return fmt.Errorf("generated description cannot be empty")
	}
	if !ValidTones[tone] {
		return ErrInvalidTone
	}
	l.generatedDescription = description
	l.tone = tone
	l.status = StatusGenerated
	l.updatedAt = time.Now()
	return nil
}

func (l *Listing) UpdateDetails(title, propertyType string, bedrooms, bathrooms, squareFeet uint,
	location string, features []string) error {

	if title == "" {
		return fmt.Errorf("listing title is required")
	}
	if propertyType == "" {
		return fmt.Errorf("property type is required")
	}
	if features == nil {
		features = []string{}
	}

	l.title = title
	l.propertyType = propertyType
	l.bedrooms = bedrooms
	l.bathrooms = bathrooms
	l.squareFeet = squareFeet
	l.location = location
	l.features = features
	l.updatedAt = time.Now()
	return nil
}
