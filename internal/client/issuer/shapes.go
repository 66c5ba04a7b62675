package issuer

import (
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
)

type shape struct {
	urlField string
	keyField string
}

// shapes are tried in priority order; the first one whose fields are both
// non-empty strings wins.
var shapes = []shape{
	{urlField: "url", keyField: "key"},
	{urlField: "uploadUrl", keyField: "key"},
	{urlField: "presignedUrl", keyField: "objectKey"},
}

func (s shape) match(body map[string]any) (models.UploadCredential, bool) {
	url, ok := body[s.urlField].(string)
	if !ok {
		return models.UploadCredential{}, false
	}
	url = strings.TrimSpace(url)

	key, ok := body[s.keyField].(string)
	if !ok || url == "" || key == "" {
		return models.UploadCredential{}, false
	}

	return models.UploadCredential{UploadURL: url, ObjectKey: key}, true
}

func resolveCredential(body map[string]any) (models.UploadCredential, bool) {
	for _, s := range shapes {
		if cred, ok := s.match(body); ok {
			return cred, true
		}
	}
	return models.UploadCredential{}, false
}
