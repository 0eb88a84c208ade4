package domain

import "time"

// Library is the tenant boundary. Every catalog entity belongs to exactly
// one library, and permission strings are built from the library's scope
// token (e.g. "acme regular").
type Library struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Active bool   `json:"active"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is a named creator within a library. The (first name, last name)
// pair is unique per library, not globally.
type Author struct {
	ID        string `json:"id"`
	LibraryID string `json:"library_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
	Notes     string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated only when the corresponding eager include is requested.
	Series  []*SeriesCredit `json:"series,omitempty"`
	Stories []*StoryCredit  `json:"stories,omitempty"`
	Volumes []*VolumeCredit `json:"volumes,omitempty"`
}

// Series is a named run of stories with a library-unique name.
type Series struct {
	ID        string `json:"id"`
	LibraryID string `json:"library_id"`
	Name      string `json:"name"`
	Copyright int    `json:"copyright,omitempty"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Authors []*AuthorCredit `json:"authors,omitempty"`
	Stories []*StoryEntry   `json:"stories,omitempty"`
}

// Story is a single work. It may appear in several series (with a reading
// order per series) and in several volumes.
type Story struct {
	ID        string `json:"id"`
	LibraryID string `json:"library_id"`
	Name      string `json:"name"`
	Copyright int    `json:"copyright,omitempty"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Authors []*AuthorCredit `json:"authors,omitempty"`
	Series  []*Series       `json:"series,omitempty"`
	Volumes []*Volume       `json:"volumes,omitempty"`
}

// VolumeType classifies how a volume relates to the stories it contains.
type VolumeType string

const (
	// VolumeTypeNone means the type has not been set.
	VolumeTypeNone VolumeType = ""
	// VolumeTypeSingle is a volume presenting exactly one work.
	VolumeTypeSingle VolumeType = "single"
	// VolumeTypeCollection is a plain multi-work collection.
	VolumeTypeCollection VolumeType = "collection"
	// VolumeTypeAnthology is a curated anthology of works.
	VolumeTypeAnthology VolumeType = "anthology"
)

// Valid reports whether t is a known volume type.
func (t VolumeType) Valid() bool {
	switch t {
	case VolumeTypeNone, VolumeTypeSingle, VolumeTypeCollection, VolumeTypeAnthology:
		return true
	}
	return false
}

// CascadesToStories reports whether crediting an author on a volume of this
// type also credits them on every story the volume contains. Single and
// anthology volumes represent a unified work; plain collections do not, so
// their story credits are managed independently.
func (t VolumeType) CascadesToStories() bool {
	return t == VolumeTypeSingle || t == VolumeTypeAnthology
}

// Volume is a published physical or electronic book within a library.
type Volume struct {
	ID        string     `json:"id"`
	LibraryID string     `json:"library_id"`
	Name      string     `json:"name"`
	Type      VolumeType `json:"type"`
	Copyright int        `json:"copyright,omitempty"`
	ISBN      string     `json:"isbn,omitempty"`
	Location  string     `json:"location,omitempty"`
	Digital   bool       `json:"digital"`
	Active    bool       `json:"active"`
	Read      bool       `json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Authors []*AuthorCredit `json:"authors,omitempty"`
	Stories []*Story        `json:"stories,omitempty"`
}

// AuthorCredit is an author attached to a work, with the principal flag
// marking the primary credited creator for that work.
type AuthorCredit struct {
	*Author
	Principal bool `json:"principal"`
}

// SeriesCredit is a series attached to an author.
type SeriesCredit struct {
	*Series
	Principal bool `json:"principal"`
}

// StoryCredit is a story attached to an author.
type StoryCredit struct {
	*Story
	Principal bool `json:"principal"`
}

// VolumeCredit is a volume attached to an author.
type VolumeCredit struct {
	*Volume
	Principal bool `json:"principal"`
}

// StoryEntry is a story attached to a series, with its reading order within
// that series.
type StoryEntry struct {
	*Story
	Ordinal int `json:"ordinal"`
}
