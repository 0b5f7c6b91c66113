package sharepoint

import "strings"

// Site represents a site collection discovered during tenant enumeration.
type Site struct {
	URL      string
	Title    string
	Template string
}

// IsRedirect returns true for redirect placeholder sites. These carry no
// auditable content and are excluded from enumeration results. The template
// name casing differs between the admin and search APIs, so match loosely.
func (s Site) IsRedirect() bool {
	return strings.HasPrefix(strings.ToUpper(s.Template), "REDIRECTSITE")
}

// Library represents a document library or list within a site
type Library struct {
	ID           string
	Title        string
	URL          string
	BaseTemplate int
	ItemCount    int
	Hidden       bool
	HasUnique    bool
}

// IsDocumentLibrary returns true if this is a document library (BaseTemplate 101)
func (l Library) IsDocumentLibrary() bool {
	return l.BaseTemplate == 101
}

// IsEmpty returns true if the library has no items
func (l Library) IsEmpty() bool {
	return l.ItemCount == 0
}

// Item represents a file or folder inside a library
type Item struct {
	ID        int
	GUID      string // File/Folder UniqueId (used in sharing links)
	Name      string
	Path      string // server-relative path
	IsFile    bool
	IsFolder  bool
	HasUnique bool
}

// GetDisplayName returns a user-friendly name for the item
func (i Item) GetDisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.GUID
}

// FileSystemObjectType constants
const (
	FileSystemObjectTypeFile   = 0
	FileSystemObjectTypeFolder = 1
)
