package softphone

import (
	"strings"
	"unicode"
)

// Directory indexes a tenant's local extensions for reconciliation. Numbers are keyed
// by their digits only, which is how remote users join to local extensions.
type Directory struct {
	extensions []LocalExtension
	byNumber   map[string]LocalExtension
	byUUID     map[string]LocalExtension
}

func NewDirectory(extensions []LocalExtension) *Directory {
	d := &Directory{
		extensions: extensions,
		byNumber:   make(map[string]LocalExtension, len(extensions)),
		byUUID:     make(map[string]LocalExtension, len(extensions)),
	}
	for _, ext := range extensions {
		if key := digitsOnly(ext.Extension); key != "" {
			d.byNumber[key] = ext
		}
		if ext.ExtensionUUID != "" {
			d.byUUID[ext.ExtensionUUID] = ext
		}
	}
	return d
}

func (d *Directory) Len() int { return len(d.extensions) }

// Lookup finds an extension by number, ignoring any formatting characters.
func (d *Directory) Lookup(number string) (LocalExtension, bool) {
	key := digitsOnly(number)
	if key == "" {
		return LocalExtension{}, false
	}
	ext, ok := d.byNumber[key]
	return ext, ok
}

func (d *Directory) ByUUID(extensionUUID string) (LocalExtension, bool) {
	ext, ok := d.byUUID[extensionUUID]
	return ext, ok
}

// Annotate marks each remote user with whether its extension exists locally.
func (d *Directory) Annotate(users []RemoteUser) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		_, exists := d.Lookup(u.Extension)
		rows = append(rows, UserRow{RemoteUser: u, ExtensionExists: exists})
	}
	return rows
}

// SameExtension reports digit-equality of two extension numbers.
func SameExtension(a, b string) bool {
	da := digitsOnly(a)
	return da != "" && da == digitsOnly(b)
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
