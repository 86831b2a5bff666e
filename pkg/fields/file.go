package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
)

func coerceFiles(raw any) []form.FileItem {
	switch v := raw.(type) {
	case []form.FileItem:
		return v
	case form.FileItem:
		return []form.FileItem{v}
	case map[string]any:
		if item, ok := fileItemFromMap(v); ok {
			return []form.FileItem{item}
		}
	case []any:
		out := make([]form.FileItem, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil
			}
			item, ok := fileItemFromMap(m)
			if !ok {
				return nil
			}
			out = append(out, item)
		}
		return out
	}
	return nil
}

func fileItemFromMap(m map[string]any) (form.FileItem, bool) {
	name, _ := m["name"].(string)
	if name == "" {
		return form.FileItem{}, false
	}
	item := form.FileItem{Name: name}
	switch size := m["size"].(type) {
	case float64:
		item.Size = int64(size)
	case int64:
		item.Size = size
	case int:
		item.Size = int64(size)
	}
	if key, ok := m["storageKey"].(string); ok {
		item.StorageKey = key
	}
	return item, true
}

// extensionOf returns the lowercased last dot segment of a filename, empty
// when the name has no extension at all.
func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

func validateFiles(in *form.Input, resolvedID string, raw any) *Issue {
	files := coerceFiles(raw)
	if len(files) == 0 {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Bitte eine Datei hochladen.")
		}
		return nil
	}

	spec := in.File
	if spec == nil {
		spec = &form.FileSpec{}
	}
	if !spec.Multifile && len(files) > 1 {
		return issueWith(resolvedID, CodeTooManyFiles,
			"Es darf nur eine Datei hochgeladen werden.",
			map[string]any{"max": 1, "got": len(files)})
	}
	if spec.MinFiles > 0 && len(files) < spec.MinFiles {
		return issueWith(resolvedID, CodeTooFewFiles,
			fmt.Sprintf("Bitte mindestens %d Dateien hochladen.", spec.MinFiles),
			map[string]any{"min": spec.MinFiles, "got": len(files)})
	}
	if spec.MaxFiles > 0 && len(files) > spec.MaxFiles {
		return issueWith(resolvedID, CodeTooManyFiles,
			fmt.Sprintf("Bitte höchstens %d Dateien hochladen.", spec.MaxFiles),
			map[string]any{"max": spec.MaxFiles, "got": len(files)})
	}

	for _, file := range files {
		if spec.MaxFileSize > 0 && file.Size > spec.MaxFileSize {
			return issueWith(resolvedID, CodeFileTooLarge,
				fmt.Sprintf("Die Datei %q ist zu groß.", file.Name),
				map[string]any{"name": file.Name, "maxBytes": spec.MaxFileSize, "got": file.Size})
		}
		if len(spec.Extensions) > 0 {
			ext := extensionOf(file.Name)
			// A file without any extension is always rejected when an
			// allow-list is configured.
			if ext == "" || !extensionAllowed(spec.Extensions, ext) {
				return issueWith(resolvedID, CodeFileExtension,
					fmt.Sprintf("Der Dateityp von %q ist nicht zulässig.", file.Name),
					map[string]any{"name": file.Name, "allowed": spec.Extensions})
			}
		}
	}
	return nil
}

func extensionAllowed(allowed []string, ext string) bool {
	for _, entry := range allowed {
		if strings.EqualFold(strings.TrimPrefix(entry, "."), ext) {
			return true
		}
	}
	return false
}

func displayFiles(raw any) string {
	files := coerceFiles(raw)
	if len(files) == 0 {
		return ""
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name)
	}
	return strings.Join(names, ", ")
}
