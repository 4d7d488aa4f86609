package utils

import "net/http"

// AmzMetaPrefix is the header prefix S3 uses for user metadata.
const AmzMetaPrefix = "X-Amz-Meta-"

// MetadataToHeader exposes object metadata the way S3 does over HTTP, each key
// prefixed with prefix.
func MetadataToHeader(meta map[string]string, prefix string) http.Header {
	h := make(http.Header, len(meta))
	for k, v := range meta {
		if k == "" {
			continue
		}
		h.Set(prefix+k, v)
	}
	return h
}
