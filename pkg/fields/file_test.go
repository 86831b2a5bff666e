package fields

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/form"
)

func fileInput(spec *form.FileSpec, required bool) *form.Input {
	return &form.Input{
		Element: form.Element{ID: "proof", Required: required},
		Kind:    form.FieldFileUpload,
		File:    spec,
	}
}

func upload(name string, size int64) map[string]any {
	return map[string]any{"name": name, "size": float64(size), "storageKey": "blob/" + name}
}

func TestValidateFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   *form.Input
		raw  any
		code string
	}{
		{"missing required", fileInput(nil, true), nil, CodeRequired},
		{"missing optional", fileInput(nil, false), nil, ""},
		{
			"second file on single-file field",
			fileInput(&form.FileSpec{}, false),
			[]any{upload("a.pdf", 10), upload("b.pdf", 10)},
			CodeTooManyFiles,
		},
		{
			"multifile below minimum",
			fileInput(&form.FileSpec{Multifile: true, MinFiles: 2}, false),
			[]any{upload("a.pdf", 10)},
			CodeTooFewFiles,
		},
		{
			"multifile above maximum",
			fileInput(&form.FileSpec{Multifile: true, MaxFiles: 1}, false),
			[]any{upload("a.pdf", 10), upload("b.pdf", 10)},
			CodeTooManyFiles,
		},
		{
			"oversized file",
			fileInput(&form.FileSpec{MaxFileSize: 100}, false),
			[]any{upload("big.pdf", 101)},
			CodeFileTooLarge,
		},
		{
			"extension not allowed",
			fileInput(&form.FileSpec{Extensions: []string{"pdf", "jpg"}}, false),
			[]any{upload("virus.exe", 10)},
			CodeFileExtension,
		},
		{
			"no extension with allow-list",
			fileInput(&form.FileSpec{Extensions: []string{"pdf"}}, false),
			[]any{upload("README", 10)},
			CodeFileExtension,
		},
		{
			"dotted allow-list entry matches",
			fileInput(&form.FileSpec{Extensions: []string{".PDF"}}, false),
			[]any{upload("scan.pdf", 10)},
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			iss := Validate(tc.in, "proof", tc.raw)
			if tc.code == "" {
				if iss != nil {
					t.Fatalf("unexpected issue: %+v", iss)
				}
				return
			}
			if iss == nil || iss.Code != tc.code {
				t.Fatalf("got %+v, want code %s", iss, tc.code)
			}
		})
	}
}

func TestExtensionOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"scan.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{"trailing.", ""},
	}
	for _, tc := range cases {
		if got := extensionOf(tc.name); got != tc.want {
			t.Fatalf("extensionOf(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDisplayFiles(t *testing.T) {
	t.Parallel()

	in := fileInput(&form.FileSpec{Multifile: true}, false)
	got := Display(in, []any{upload("a.pdf", 1), upload("b.jpg", 2)})
	if got != "a.pdf, b.jpg" {
		t.Fatalf("Display = %q", got)
	}
}
