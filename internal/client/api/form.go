package api

import (
	"bytes"
	"mime/multipart"
)

// Form is a multipart/form-data payload, used for the endpoints that may
// carry a profile picture (registration and profile update). Passing a *Form
// to Request sends it untransformed as multipart instead of JSON.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	key, value string
}

type formFile struct {
	field, name string
	content     []byte
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a plain text field. Fields keep insertion order.
func (f *Form) Set(key, value string) {
	f.fields = append(f.fields, formField{key: key, value: value})
}

// AddFile appends a file part with the given form field and file name.
func (f *Form) AddFile(field, name string, content []byte) {
	f.files = append(f.files, formFile{field: field, name: name, content: content})
}

// Value returns the first value set for key, or "".
func (f *Form) Value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return fld.value
		}
	}
	return ""
}

// encode renders the multipart body and returns it with its content type
// (which embeds the generated boundary).
func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.key, fld.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
