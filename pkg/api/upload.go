package api

import (
	"io"

	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

const (
	uploadEndpoint  = "/api/upload-comment-image"
	uploadFieldName = "file"
)

func uploadRequest(base, fileName string, headers map[string]string, r io.Reader) httpclient.UploadRequest {
	return httpclient.UploadRequest{
		URL:       joinURL(base, uploadEndpoint),
		Headers:   headers,
		FieldName: uploadFieldName,
		FileName:  fileName,
		Reader:    r,
	}
}
