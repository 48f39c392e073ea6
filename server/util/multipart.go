package util

import (
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

type MultipartValues map[string]any

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

type ParsedMultipart struct {
	Values MultipartValues
	Files  []MultipartFile
}

func (pm *ParsedMultipart) CloseFiles() {
	for _, mf := range pm.Files {
		if mf.File != nil {
			mf.File.Close()
		}
	}
}

func (pm *ParsedMultipart) FileByKey(key string) *MultipartFile {
	for _, mf := range pm.Files {
		if mf.Field == key {
			return &mf
		}
	}

	return nil
}

// StringValue returns the first string value for key, or "".
func (pm *ParsedMultipart) StringValue(key string) string {
	switch v := pm.Values[key].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}

	return ""
}

// ParseMultipart reads a multipart form, capping the request body at
// maxBody. Oversized bodies surface as a parse error rather than being
// silently truncated.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxMemory, maxBody int64) (*ParsedMultipart, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, err
	}

	values := extractValues(r)
	files := extractFiles(r)

	return &ParsedMultipart{
		Values: values,
		Files:  files,
	}, nil
}

func extractValues(r *http.Request) MultipartValues {
	values := make(MultipartValues)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			switch len(arr) {
			case 0:
				continue
			case 1:
				values[key] = arr[0]
			default:
				asAny := make([]any, len(arr))
				for i, v := range arr {
					asAny[i] = v
				}
				values[key] = asAny
			}
		}
	}

	return values
}

func extractFiles(r *http.Request) []MultipartFile {
	var filesOut []MultipartFile

	for key, fhs := range r.MultipartForm.File {
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				zap.S().Warnw("skipped file, could not open", "filename", fh.Filename, "error", err)
				continue
			}

			filesOut = append(filesOut, MultipartFile{Field: key, File: f, Header: fh})
		}
	}

	return filesOut
}
